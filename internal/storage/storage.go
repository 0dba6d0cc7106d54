package storage

import (
	"context"
	"fmt"
	"strings"

	"leilao/internal/config"
)

const (
	// TypeLocal stores banners on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores banners in Amazon S3 or any S3-compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores banners in Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores banners in Tencent COS.
	TypeCOS = "cos"
	// TypeR2 is Cloudflare R2, served by the S3 driver with a custom endpoint.
	TypeR2 = "r2"
)

// SaveOptions controls how a backend persists an uploaded file. Category
// groups files on disk or under an object prefix; Extension hints the file
// extension without the leading dot.
type SaveOptions struct {
	Category     string
	Extension    string
	BaseName     string
	SkipIfExists bool
}

// Storage persists binary payloads and returns a backend-specific key, such
// as a relative path for local storage or an object key for remote backends.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends whose files can be served
// directly over HTTP from a local directory.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the storage backend named by the configuration.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg, false)
	case TypeR2:
		return NewS3Storage(cfg, true)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
