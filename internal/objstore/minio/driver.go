// Package minio provides a MinIO implementation of objstore.Client.
//
// Usage:
//
//	cfg := objstore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "drivefs")
//	client, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//
//	page, err := client.List(ctx, "u1/", "/", "")
package minio

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/objstore"
)

// Driver is a MinIO implementation of objstore.Client.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	core     *miniogo.Core
	bucket   string
	pageSize int
}

// New connects to MinIO using the provided Config and returns a Driver.
// It verifies the bucket exists before returning, so misconfiguration
// fails at startup instead of on the first request.
func New(ctx context.Context, cfg *objstore.Config) (*Driver, error) {
	core, err := miniogo.NewCore(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUpstream, "failed to create minio client", err)
	}

	d := &Driver{core: core, bucket: cfg.Bucket, pageSize: cfg.PageSize}

	exists, err := core.Client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, mapError(err, "failed to reach object store")
	}
	if !exists {
		return nil, errs.Newf(errs.ErrKindUpstream, "bucket %q does not exist", cfg.Bucket)
	}

	return d, nil
}

// --- objstore.Client implementation ---

// List returns one page of keys under prefix using the S3 ListObjectsV2
// protocol, exposing the store's real continuation tokens to the caller.
func (d *Driver) List(ctx context.Context, prefix, delimiter, continuationToken string) (*objstore.Page, error) {
	// The Core listing call manages its own transport deadlines; honor
	// caller cancellation before the round-trip.
	if err := ctx.Err(); err != nil {
		return nil, mapError(err, "list aborted")
	}

	res, err := d.core.ListObjectsV2(d.bucket, prefix, "", continuationToken, delimiter, d.pageSize)
	if err != nil {
		return nil, mapError(err, "failed to list objects")
	}

	page := &objstore.Page{
		Truncated: res.IsTruncated,
		NextToken: res.NextContinuationToken,
	}
	for _, obj := range res.Contents {
		page.Objects = append(page.Objects, objstore.ObjectMeta{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	for _, cp := range res.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, cp.Prefix)
	}
	return page, nil
}

// PresignPut returns a time-bound PUT URL bound to the given content
// type, so a client cannot upload under a different MIME type than it
// declared.
func (d *Driver) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	u, err := d.core.Client.PresignHeader(ctx, http.MethodPut, d.bucket, key, expiry, url.Values{}, headers)
	if err != nil {
		return "", mapError(err, "failed to presign upload")
	}
	return u.String(), nil
}

// PresignGet returns a time-bound GET URL for the object at key.
func (d *Driver) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := d.core.Client.PresignedGetObject(ctx, d.bucket, key, expiry, nil)
	if err != nil {
		return "", mapError(err, "failed to presign download")
	}
	return u.String(), nil
}

// Head returns metadata for the object at key without downloading it.
func (d *Driver) Head(ctx context.Context, key string) (*objstore.ObjectMeta, error) {
	stat, err := d.core.Client.StatObject(ctx, d.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to stat object")
	}

	return &objstore.ObjectMeta{
		Key:          stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// PutMarker writes a zero-byte object at key.
func (d *Driver) PutMarker(ctx context.Context, key string) error {
	_, err := d.core.Client.PutObject(ctx, d.bucket, key, bytes.NewReader(nil), 0, miniogo.PutObjectOptions{})
	if err != nil {
		return mapError(err, "failed to write folder marker")
	}
	return nil
}

// Copy duplicates the object at srcKey to dstKey within the bucket.
func (d *Driver) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := d.core.Client.CopyObject(ctx,
		miniogo.CopyDestOptions{Bucket: d.bucket, Object: dstKey},
		miniogo.CopySrcOptions{Bucket: d.bucket, Object: srcKey},
	)
	if err != nil {
		return mapError(err, "failed to copy object")
	}
	return nil
}

// Delete removes the object at key. MinIO treats removal of an absent
// key as success, matching the objstore.Client contract.
func (d *Driver) Delete(ctx context.Context, key string) error {
	err := d.core.Client.RemoveObject(ctx, d.bucket, key, miniogo.RemoveObjectOptions{})
	if err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}
