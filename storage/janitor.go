package storage

import (
	"context"
	"errors"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/sirupsen/logrus"
)

// ErrForeignURL is returned by a store when a media URL does not point into it.
var ErrForeignURL = errors.New("media url does not belong to this store")

// AttachmentStore is where message media lives.
type AttachmentStore interface {
	// Resolve turns a media URL into the store's own path or identifier.
	Resolve(mediaURL string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
}

// Janitor removes media once no participant can see the owning message.
// Purge is best-effort: every failure is logged and swallowed.
type Janitor struct {
	store AttachmentStore
}

func NewJanitor(store AttachmentStore) *Janitor {
	return &Janitor{store: store}
}

func (j *Janitor) Purge(ctx context.Context, mediaURL string) {
	if mediaURL == "" {
		return
	}
	fields := logrus.Fields{"media_url": mediaURL}

	path, err := j.store.Resolve(mediaURL)
	if err != nil {
		fields["error"] = err.Error()
		utils.LogWarn(fields, "Attachment purge skipped: unresolvable media url")
		return
	}
	fields["path"] = path

	exists, err := j.store.Exists(ctx, path)
	if err != nil {
		fields["error"] = err.Error()
		utils.LogWarn(fields, "Attachment purge failed: presence check")
		return
	}
	if !exists {
		utils.LogWarn(fields, "Attachment purge skipped: file already gone")
		return
	}

	if err := j.store.Delete(ctx, path); err != nil {
		fields["error"] = err.Error()
		utils.LogWarn(fields, "Attachment purge failed: delete")
		return
	}
	utils.LogInfo("Attachment purged: " + path)
}
