// Package storage reads small objects from an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrObjectNotFound is returned by Fetch when the key does not exist in the bucket.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectTooLarge is returned by Fetch when the object exceeds the caller's limit.
	ErrObjectTooLarge = errors.New("object too large")
)

// ObjectInfo describes a fetched object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Storage is a read-only view of one bucket.
type Storage interface {
	// Fetch reads the whole object at key. Objects larger than limit bytes are not read.
	Fetch(ctx context.Context, key string, limit int64) ([]byte, ObjectInfo, error)
	// PingContext reports whether the bucket is reachable.
	PingContext(ctx context.Context) error
}
