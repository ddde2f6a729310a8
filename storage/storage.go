// Package storage resolves the bucket generated documents land in and
// uploads them. Bucket provisioning is an operational concern, not a
// per-request one, so the resolver works opportunistically: use the desired
// bucket when it exists, create it when allowed, otherwise settle for any
// bucket the account already has.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// API abstracts the object-store operations the pipeline needs.
type API interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	// MakeBucket creates a publicly readable bucket: generated documents
	// must be fetchable by URL without additional auth.
	MakeBucket(ctx context.Context, name string) error
	ListBuckets(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	PublicURL(bucket, path string) string
}

// ErrNoBucket means the desired bucket neither exists nor could be created
// and the account has no bucket at all to fall back to. Fatal: there is
// nowhere to put the document.
var ErrNoBucket = errors.New("storage: no bucket available")

// Resolver implements the three-tier bucket resolution.
type Resolver struct {
	api API
}

func NewResolver(api API) *Resolver {
	return &Resolver{api: api}
}

// Ensure returns the name of the bucket to use for desired. The lookup and
// creation failures are folded into the fallback path rather than surfaced:
// a misconfigured environment should still deliver documents when any bucket
// exists.
func (r *Resolver) Ensure(ctx context.Context, desired string) (string, error) {
	exists, err := r.api.BucketExists(ctx, desired)
	if err == nil && exists {
		return desired, nil
	}

	if createErr := r.api.MakeBucket(ctx, desired); createErr == nil {
		return desired, nil
	}

	names, listErr := r.api.ListBuckets(ctx)
	if listErr != nil {
		return "", fmt.Errorf("storage: list buckets for fallback: %w", listErr)
	}
	if len(names) == 0 {
		return "", ErrNoBucket
	}
	return names[0], nil
}
