package gcs

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by StorageService reads for missing objects.
var ErrObjectNotFound = errors.New("object not found")

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// ReadObject returns the object's bytes or ErrObjectNotFound.
	ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error)

	// WriteObject creates or replaces the object.
	WriteObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
}
