package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps uploads on the local filesystem under Root and serves
// them under URLPrefix (e.g. "/uploads/").
type LocalStore struct {
	Root      string
	URLPrefix string
}

func NewLocalStore(root, urlPrefix string) *LocalStore {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{Root: root, URLPrefix: urlPrefix}
}

// Resolve accepts absolute ("https://host/uploads/a.png") and relative
// ("/uploads/a.png") URLs and refuses anything that escapes Root.
func (s *LocalStore) Resolve(mediaURL string) (string, error) {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignURL, err)
	}

	rel, ok := strings.CutPrefix(u.Path, s.URLPrefix)
	if !ok || rel == "" {
		return "", ErrForeignURL
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if full == root || !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return "", ErrForeignURL
	}
	return full, nil
}

func (s *LocalStore) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *LocalStore) Delete(_ context.Context, path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
