package storage

import (
	"context"
	"time"
)

// DisabledStorage stands in when no bucket is configured. Every write fails
// with ErrStorageDisabled so callers can skip archiving.
type DisabledStorage struct{}

func (DisabledStorage) Key(parts ...string) string { return objectKey("", parts...) }

func (DisabledStorage) Upload(context.Context, string, []byte, string) error {
	return ErrStorageDisabled
}

func (DisabledStorage) Download(context.Context, string) ([]byte, error) {
	return nil, ErrStorageDisabled
}

func (DisabledStorage) DownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (DisabledStorage) Delete(context.Context, string) error {
	return ErrStorageDisabled
}
