package storage

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Uploader is what the asset sync needs from an object store.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// UploadFile uploads a local file under key and returns the public URL.
// The content type is derived from the file extension.
func UploadFile(
	ctx context.Context,
	up Uploader,
	key string,
	path string,
) (string, error) {

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return up.Upload(ctx, key, f, contentType)
}

// SyncResult reports what SyncDir did per key.
type SyncResult struct {
	Uploaded map[string]string
	Missing  []string
}

// SyncDir uploads dir/<key> for every key. Keys without a local file are
// reported as missing; with dryRun nothing is uploaded.
func SyncDir(
	ctx context.Context,
	up Uploader,
	dir string,
	keys []string,
	dryRun bool,
) (*SyncResult, error) {

	res := &SyncResult{Uploaded: make(map[string]string)}
	for _, key := range keys {
		path := filepath.Join(dir, filepath.FromSlash(key))
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				res.Missing = append(res.Missing, key)
				continue
			}
			return res, err
		}

		if dryRun {
			res.Uploaded[key] = path
			continue
		}

		url, err := UploadFile(ctx, up, key, path)
		if err != nil {
			return res, err
		}
		res.Uploaded[key] = url
	}
	return res, nil
}
