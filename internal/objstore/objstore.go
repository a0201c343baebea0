// Package objstore defines the boundary between drivefs and the backing
// object-storage service.
//
// The drive layer depends only on the Client interface — never on a
// specific provider package. The MinIO implementation lives in the minio
// subpackage; tests substitute an in-memory fake.
//
// Usage:
//
//	cfg := objstore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "drivefs")
//	client, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//
//	page, err := client.List(ctx, "u1/", "/", "")
package objstore

import (
	"context"
	"time"
)

// Delimiter is the key separator used for virtual folder grouping.
const Delimiter = "/"

// Client is the single interface every object-store provider implements.
// All methods map to one storage round-trip; pagination is explicit so
// callers control how many pages they are willing to aggregate.
type Client interface {
	// List returns one page of keys under prefix. With a non-empty
	// delimiter, keys are grouped: keys containing the delimiter beyond
	// the prefix collapse into Page.CommonPrefixes. Pass the previous
	// page's NextToken to continue; "" starts from the beginning.
	List(ctx context.Context, prefix, delimiter, continuationToken string) (*Page, error)

	// PresignPut returns a time-bound URL permitting a single PUT of the
	// object at key with the given content type. No object is written by
	// this call.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// PresignGet returns a time-bound URL permitting a single GET of the
	// object at key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Head returns metadata for the object at key without downloading its
	// content. Returns a not-found error kind when the object is absent.
	Head(ctx context.Context, key string) (*ObjectMeta, error)

	// PutMarker writes a zero-byte object at key. Used only for folder
	// markers, whose keys end in the delimiter.
	PutMarker(ctx context.Context, key string) error

	// Copy duplicates the object at srcKey to dstKey within the store.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete removes the object at key. Deleting an absent key is not an
	// error — the store treats it as already gone.
	Delete(ctx context.Context, key string) error
}

// ObjectMeta describes a single stored object.
type ObjectMeta struct {
	// Key is the full flat key within the bucket (e.g. "u1/Docs/report.pdf").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "application/pdf").
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}

// Page is one page of a delimited listing.
type Page struct {
	// Objects are the direct (non-grouped) keys in this page.
	Objects []ObjectMeta

	// CommonPrefixes are the grouped sub-prefixes — the virtual folders
	// directly under the listed prefix. Each ends in the delimiter.
	CommonPrefixes []string

	// Truncated is true when more pages follow.
	Truncated bool

	// NextToken continues the listing when Truncated is true.
	NextToken string
}

// Config holds all settings needed to connect to an object-store backend.
type Config struct {
	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string

	// Bucket is the bucket holding every tenant's objects.
	Bucket string

	// PageSize caps keys per List page. 0 uses the backend default.
	PageSize int
}

// DefaultConfig returns a sensible local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey, bucket string) *Config {
	return &Config{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    false,
	}
}
