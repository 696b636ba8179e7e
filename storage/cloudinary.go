package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryHost = "res.cloudinary.com"

// CloudinaryStore removes media that was uploaded to Cloudinary.
// Paths have the form "<resource type>/<public id>", e.g. "image/messages/abc".
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	timeout   time.Duration
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not set")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %v", err)
	}
	return &CloudinaryStore{cld: cld, cloudName: cloudName, timeout: 10 * time.Second}, nil
}

// Resolve parses https://res.cloudinary.com/{cloud}/{type}/upload/[v123/]{public_id}.{ext}
func (s *CloudinaryStore) Resolve(mediaURL string) (string, error) {
	return parseCloudinaryURL(mediaURL, s.cloudName)
}

func parseCloudinaryURL(mediaURL, cloudName string) (string, error) {
	u, err := url.Parse(mediaURL)
	if err != nil || u.Host != cloudinaryHost {
		return "", ErrForeignURL
	}

	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(parts) < 4 || parts[0] != cloudName || parts[2] != "upload" {
		return "", ErrForeignURL
	}
	resourceType := parts[1]
	rest := parts[3:]
	if len(rest) > 1 && isVersionSegment(rest[0]) {
		rest = rest[1:]
	}

	publicID := strings.Join(rest, "/")
	// raw assets keep their extension in the public id
	if resourceType != "raw" {
		publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
	}
	if publicID == "" {
		return "", ErrForeignURL
	}
	return resourceType + "/" + publicID, nil
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitCloudinaryPath(p string) (string, string, error) {
	resourceType, publicID, ok := strings.Cut(p, "/")
	if !ok || publicID == "" {
		return "", "", fmt.Errorf("invalid cloudinary path %q", p)
	}
	return resourceType, publicID, nil
}

func (s *CloudinaryStore) Exists(ctx context.Context, p string) (bool, error) {
	resourceType, publicID, err := splitCloudinaryPath(p)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.cld.Admin.Asset(ctx, admin.AssetParams{
		PublicID:  publicID,
		AssetType: api.AssetType(resourceType),
	})
	if err != nil {
		return false, err
	}
	return res.Error.Message == "", nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, p string) error {
	resourceType, publicID, err := splitCloudinaryPath(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
	return nil
}
