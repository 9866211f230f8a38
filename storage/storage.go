// Package storage keeps uploaded files on local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rpupo63/blog-admin-backend/errs"
)

// Storage is a flat key/value file store. Paths use forward slashes.
type Storage interface {
	Put(ctx context.Context, path string, body io.Reader) error
	Delete(ctx context.Context, path string) error
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg map[string]string) (Storage, error) {
	switch driver := config.GetString(cfg, "STORAGE_DRIVER", "local"); driver {
	case "local":
		return NewLocalDisk(config.GetString(cfg, "STORAGE_ROOT", "storage/app/public")), nil
	case "s3":
		bucket := config.GetString(cfg, "S3_BUCKET", "")
		if bucket == "" {
			return nil, errs.NewConfigMissingError("S3_BUCKET")
		}
		return NewS3(ctx, S3Options{
			Bucket:   bucket,
			Region:   config.GetString(cfg, "S3_REGION", "us-east-1"),
			Endpoint: config.GetString(cfg, "S3_ENDPOINT", ""),
		})
	default:
		return nil, errs.NewConfigError("STORAGE_DRIVER", fmt.Errorf("unknown driver %q", driver))
	}
}
