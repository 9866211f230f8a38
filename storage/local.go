package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpupo63/blog-admin-backend/errs"
)

// LocalDisk stores files below a root directory.
type LocalDisk struct {
	root string
}

func NewLocalDisk(root string) *LocalDisk {
	return &LocalDisk{root: root}
}

func (d *LocalDisk) localPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", errs.NewInvalidFieldError("path", "must stay inside the storage root")
	}
	return filepath.Join(d.root, clean), nil
}

func (d *LocalDisk) Put(ctx context.Context, path string, body io.Reader) error {
	localPath, err := d.localPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return errs.NewStorageError("create directory for", path, err)
	}

	f, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errs.NewStorageError("open", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return errs.NewStorageError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errs.NewStorageError("close", path, err)
	}
	return ctx.Err()
}

// Delete removes the file. A missing file is not an error.
func (d *LocalDisk) Delete(_ context.Context, path string) error {
	localPath, err := d.localPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return errs.NewStorageError("delete", path, err)
	}
	return nil
}
