package core

import (
	"context"
	"io/fs"
	"os"
	"time"
)

// Timeouts for external subprocess invocations.
const (
	// TimeoutPip bounds a single pip query. pip can be slow on cold
	// caches and network-mounted site-packages.
	TimeoutPip = 30 * time.Second

	// TimeoutShort bounds quick availability checks (interpreter probes).
	TimeoutShort = 10 * time.Second
)

// File permissions used across the application.
const (
	// PermOwnerRW is the permission for files written by pipdoctor.
	PermOwnerRW fs.FileMode = 0644
)

// Marshaler abstracts serialization for testability.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}

// FileSystem abstracts filesystem operations for testability.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
}

// OSFileSystem is the production FileSystem backed by the os package.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (o *OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (o *OSFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (o *OSFileSystem) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(path)
}
