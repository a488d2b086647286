package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// writeTimeout bounds a single object upload.
const writeTimeout = 2 * time.Minute

// Client is the StorageService backed by Google Cloud Storage.
// It assumes Application Default Credentials are configured (gcloud auth application-default login).
type Client struct {
	client *storage.Client
}

// NewClient creates a storage client that is reused for every call.
func NewClient(ctx context.Context) (*Client, error) {
	c, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Client{client: c}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

// ReadObject implements StorageService.
func (c *Client) ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	r, err := c.client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

// WriteObject implements StorageService.
func (c *Client) WriteObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w := c.client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

// URI formats a gs:// URI.
func URI(bucketName, objectName string) string {
	return "gs://" + bucketName + "/" + objectName
}

var _ StorageService = (*Client)(nil)
