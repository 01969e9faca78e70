package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps MinIO and provides idea-scoped object storage (one bucket per
// idea) for uploaded documents.
type Client struct {
	mc      *minio.Client
	enabled bool
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint        string // e.g. "minio:9000" or "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// NewClient creates a storage client. If config has empty Endpoint, the client is disabled (all ops return ErrDisabled).
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc, enabled: true}, nil
}

// ErrDisabled is returned when storage is not configured.
var ErrDisabled = fmt.Errorf("document storage not configured")

// BucketForIdea returns the bucket name for an idea (one bucket per idea).
// MinIO/S3: lowercase, digits, hyphens; 3-63 chars.
func BucketForIdea(ideaID string) string {
	return "idea-" + strings.ToLower(ideaID)
}

// EnsureBucket creates the idea bucket if it does not exist (idempotent).
func (c *Client) EnsureBucket(ctx context.Context, ideaID string) error {
	if !c.enabled {
		return ErrDisabled
	}
	bucket := BucketForIdea(ideaID)
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

// PutObject uploads an object to the idea bucket.
func (c *Client) PutObject(ctx context.Context, ideaID, key string, reader io.Reader, size int64, contentType string) error {
	if !c.enabled {
		return ErrDisabled
	}
	if err := c.EnsureBucket(ctx, ideaID); err != nil {
		return err
	}
	bucket := BucketForIdea(ideaID)
	_, err := c.mc.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GetObjectResult holds the reader and metadata for a downloaded object.
type GetObjectResult struct {
	Reader       io.ReadCloser
	ContentType  string
	Size         int64
	LastModified time.Time
}

// GetObject downloads an object from the idea bucket.
func (c *Client) GetObject(ctx context.Context, ideaID, key string) (*GetObjectResult, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	bucket := BucketForIdea(ideaID)
	obj, err := c.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, err
	}
	return &GetObjectResult{
		Reader:       obj,
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// DeleteObject removes an object from the idea bucket.
func (c *Client) DeleteObject(ctx context.Context, ideaID, key string) error {
	if !c.enabled {
		return ErrDisabled
	}
	bucket := BucketForIdea(ideaID)
	return c.mc.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// Enabled reports whether the storage client is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}
