// Package signature stores signature images uploaded for leave requests.
package signature

import (
	"context"
	"fmt"

	"go-selfservice/internal/config"
)

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type Storage interface {
	// Put writes data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte) error
}

// FileKey is the object name of a signature file.
func FileKey(signatureFileID string) string {
	return signatureFileID + ".png"
}

// New picks the backend configured in cfg.Driver.
func New(ctx context.Context, cfg config.SignatureConfig) (Storage, error) {
	switch cfg.Driver {
	case config.SignatureDriverLocal:
		return NewLocalStorage(cfg.Directory)
	case config.SignatureDriverS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported signature driver %q", cfg.Driver)
	}
}
