// Package storage persists uploaded cover images either on local disk
// or in an S3 bucket, selected by storage.type
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Store saves an uploaded file under name and returns the public URL
// clients should use to fetch it.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (url string, err error)
}

// New picks the store implementation for the configured storage type.
func New() (Store, error) {
	if viper.GetString("storage.type") == "s3" {
		return NewS3()
	}

	return NewLocal(), nil
}

type LocalStore struct{}

func NewLocal() *LocalStore {
	return &LocalStore{}
}

func (l *LocalStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	dir := viper.GetString("storage.upload_dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/uploads/%s", scheme, viper.GetString("host.domain"), name), nil
}
