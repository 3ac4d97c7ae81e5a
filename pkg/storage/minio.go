package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Bucket names.
const (
	BucketIdentityDocuments = "identity-documents"
	BucketAvatars           = "avatars"
)

// MaxUploadSize bounds document and avatar uploads.
const MaxUploadSize = 5 << 20 // 5 MB

// Client wraps an S3-compatible object store.
type Client struct {
	mc        *minio.Client
	publicURL string
}

// NewClient connects to the object store and ensures the buckets exist.
func NewClient(ctx context.Context, endpoint, accessKey, secretKey, publicURL string, useSSL bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	c := &Client{mc: mc, publicURL: strings.TrimRight(publicURL, "/")}
	for _, bucket := range []string{BucketIdentityDocuments, BucketAvatars} {
		exists, err := mc.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("storage: check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("storage: create bucket %s: %w", bucket, err)
			}
			log.Printf("[storage] created bucket %s", bucket)
		}
	}
	return c, nil
}

// Upload stores an object under a per-user prefix and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, userID, ext string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(userID, ext)
	_, err := c.mc.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s/%s: %w", bucket, key, err)
	}
	return c.PublicURL(bucket, key), nil
}

// PublicURL builds the externally reachable URL for an object.
func (c *Client) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicURL, bucket, key)
}

// ObjectKey namespaces an object under its owner: <userID>/<unix-ns>.<ext>.
func ObjectKey(userID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d.%s", userID, time.Now().UnixNano(), ext)
}
