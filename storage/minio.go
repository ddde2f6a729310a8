package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps an S3-compatible object store behind the API interface.
type Client struct {
	mc       *minio.Client
	endpoint string
	secure   bool
}

// NewClient constructs the object-store client from static credentials.
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("storage: empty endpoint")
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: build client: %w", err)
	}
	return &Client{mc: mc, endpoint: endpoint, secure: secure}, nil
}

func (c *Client) BucketExists(ctx context.Context, name string) (bool, error) {
	exists, err := c.mc.BucketExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("storage: stat bucket %s: %w", name, err)
	}
	return exists, nil
}

func (c *Client) MakeBucket(ctx context.Context, name string) error {
	if err := c.mc.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", name, err)
	}
	// Anonymous download policy so the public URL works without auth.
	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`, name)
	if err := c.mc.SetBucketPolicy(ctx, name, policy); err != nil {
		return fmt.Errorf("storage: set bucket policy %s: %w", name, err)
	}
	return nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	infos, err := c.mc.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: list buckets: %w", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, nil
}

// Upload writes the object. PutObject overwrites an existing key, which is
// the upsert behaviour retries rely on.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	_, err := c.mc.PutObject(ctx, bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("storage: upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (c *Client) PublicURL(bucket, path string) string {
	scheme := "http"
	if c.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, bucket, path)
}
