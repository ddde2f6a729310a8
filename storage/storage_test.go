package storage

import (
	"context"
	"errors"
	"testing"
)

type fakeAPI struct {
	existing   map[string]bool
	createErr  error
	listErr    error
	created    []string
	uploads    map[string][]byte
	listOnList []string
}

func (f *fakeAPI) BucketExists(_ context.Context, name string) (bool, error) {
	return f.existing[name], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[name] = true
	f.created = append(f.created, name)
	return nil
}

func (f *fakeAPI) ListBuckets(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOnList, nil
}

func (f *fakeAPI) Upload(_ context.Context, bucket, path string, data []byte, _ string) error {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucket+"/"+path] = data
	return nil
}

func (f *fakeAPI) PublicURL(bucket, path string) string {
	return "https://store.example/" + bucket + "/" + path
}

func TestEnsure_ExistingBucketUsedAsIs(t *testing.T) {
	api := &fakeAPI{existing: map[string]bool{"transaction-documents": true}}
	r := NewResolver(api)

	got, err := r.Ensure(context.Background(), "transaction-documents")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != "transaction-documents" {
		t.Fatalf("expected desired bucket, got %s", got)
	}
	if len(api.created) != 0 {
		t.Fatalf("expected no creation attempt")
	}
}

func TestEnsure_CreatesWhenMissing(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api)

	got, err := r.Ensure(context.Background(), "transaction-documents")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != "transaction-documents" {
		t.Fatalf("expected desired bucket, got %s", got)
	}
	if len(api.created) != 1 {
		t.Fatalf("expected one bucket created, got %v", api.created)
	}
}

func TestEnsure_FallsBackToFirstExistingBucket(t *testing.T) {
	api := &fakeAPI{
		createErr:  errors.New("permission denied"),
		listOnList: []string{"legacy-files", "misc"},
	}
	r := NewResolver(api)

	got, err := r.Ensure(context.Background(), "transaction-documents")
	if err != nil {
		t.Fatalf("fallback must not error, got %v", err)
	}
	if got != "legacy-files" {
		t.Fatalf("expected first listed bucket, got %s", got)
	}
}

func TestEnsure_NoBucketAnywhereIsFatal(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("quota exceeded")}
	r := NewResolver(api)

	_, err := r.Ensure(context.Background(), "transaction-documents")
	if !errors.Is(err, ErrNoBucket) {
		t.Fatalf("expected ErrNoBucket, got %v", err)
	}
}

func TestEnsure_ListFailureSurfaces(t *testing.T) {
	api := &fakeAPI{
		createErr: errors.New("permission denied"),
		listErr:   errors.New("network down"),
	}
	r := NewResolver(api)

	if _, err := r.Ensure(context.Background(), "transaction-documents"); err == nil {
		t.Fatalf("expected error when fallback listing fails")
	}
}
