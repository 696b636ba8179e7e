package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Resolve(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "/uploads")

	p, err := s.Resolve("/uploads/messages/a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "messages", "a.png"), p)

	p, err = s.Resolve("https://cdn.example.com/uploads/b.jpg?x=1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b.jpg"), p)

	for _, bad := range []string{
		"/other/a.png",
		"/uploads/",
		"/uploads/../secret.txt",
		"/uploads/a/../../etc/passwd",
	} {
		_, err := s.Resolve(bad)
		assert.ErrorIs(t, err, ErrForeignURL, bad)
	}
}

func TestLocalStore_ExistsAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "/uploads/")
	ctx := context.Background()

	file := filepath.Join(root, "a.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0644))

	ok, err := s.Exists(ctx, file)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, file))
	ok, err = s.Exists(ctx, file)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, file))
}

func TestJanitor_PurgeDeletesLocalFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "photo.jpg")
	require.NoError(t, os.WriteFile(file, []byte("jpg"), 0644))

	j := NewJanitor(NewLocalStore(root, "/uploads/"))
	j.Purge(context.Background(), "/uploads/photo.jpg")

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

type failingStore struct {
	resolveErr error
	existsErr  error
	deleteErr  error
	deleted    []string
}

func (f *failingStore) Resolve(u string) (string, error) { return u, f.resolveErr }
func (f *failingStore) Exists(context.Context, string) (bool, error) {
	return f.existsErr == nil, f.existsErr
}
func (f *failingStore) Delete(_ context.Context, p string) error {
	f.deleted = append(f.deleted, p)
	return f.deleteErr
}

func TestJanitor_PurgeSwallowsErrors(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		NewJanitor(&failingStore{resolveErr: ErrForeignURL}).Purge(ctx, "x")
		NewJanitor(&failingStore{existsErr: errors.New("io")}).Purge(ctx, "x")
		NewJanitor(&failingStore{deleteErr: errors.New("permission denied")}).Purge(ctx, "x")
	})

	s := &failingStore{}
	NewJanitor(s).Purge(ctx, "")
	assert.Empty(t, s.deleted)

	NewJanitor(s).Purge(ctx, "media/1.png")
	assert.Equal(t, []string{"media/1.png"}, s.deleted)
}

func TestParseCloudinaryURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712345678/messages/abc.jpg": "image/messages/abc",
		"https://res.cloudinary.com/demo/image/upload/abc.png":                      "image/abc",
		"https://res.cloudinary.com/demo/video/upload/v1/clips/x.mp4":               "video/clips/x",
		"https://res.cloudinary.com/demo/raw/upload/v2/docs/report.pdf":             "raw/docs/report.pdf",
	}
	for in, want := range cases {
		got, err := parseCloudinaryURL(in, "demo")
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{
		"https://example.com/demo/image/upload/abc.png",
		"https://res.cloudinary.com/other/image/upload/abc.png",
		"https://res.cloudinary.com/demo/image/fetch/abc.png",
		"https://res.cloudinary.com/demo/image/upload",
	} {
		_, err := parseCloudinaryURL(bad, "demo")
		assert.ErrorIs(t, err, ErrForeignURL, bad)
	}
}

func TestSplitCloudinaryPath(t *testing.T) {
	rt, id, err := splitCloudinaryPath("image/messages/abc")
	require.NoError(t, err)
	assert.Equal(t, "image", rt)
	assert.Equal(t, "messages/abc", id)

	_, _, err = splitCloudinaryPath("image")
	assert.Error(t, err)
}
