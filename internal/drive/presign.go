package drive

import (
	"context"
	"time"

	"github.com/objvault/drivefs/internal/cache"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/objstore"
	"github.com/objvault/drivefs/internal/vpath"
)

// Issuer hands out time-bound upload and download URLs. It never moves
// object bytes itself — transfers run directly between the client and
// the store. Issuance is stateless and fully parallelizable.
type Issuer struct {
	client         objstore.Client
	cache          cache.Store
	statTTL        time.Duration
	maxUploadBytes int64
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
}

// NewIssuer wires a presigned-URL issuer. uploadExpiry should be short
// (minutes); downloadExpiry may be longer since downloads are
// user-initiated and can be deferred.
func NewIssuer(client objstore.Client, store cache.Store, statTTL time.Duration, maxUploadBytes int64, uploadExpiry, downloadExpiry time.Duration) *Issuer {
	return &Issuer{
		client:         client,
		cache:          store,
		statTTL:        statTTL,
		maxUploadBytes: maxUploadBytes,
		uploadExpiry:   uploadExpiry,
		downloadExpiry: downloadExpiry,
	}
}

// UploadURL validates the upload request and returns a presigned PUT
// grant for the destination key. The destination listing cache is
// invalidated eagerly even though the object does not exist yet; a list
// issued before the client's PUT completes simply misses it, which is an
// accepted staleness window.
func (i *Issuer) UploadURL(ctx context.Context, tenant, fileName, contentType string, fileSize int64, destPath string) (*UploadGrant, error) {
	clean, err := vpath.SanitizeName(fileName)
	if err != nil {
		return nil, err
	}
	dest, err := vpath.Normalize(destPath)
	if err != nil {
		return nil, err
	}
	if fileSize <= 0 {
		return nil, errs.New(errs.ErrKindValidation, "file size must be positive")
	}
	if fileSize > i.maxUploadBytes {
		return nil, errs.Newf(errs.ErrKindQuotaExceeded, "file size %d exceeds the %d byte limit", fileSize, i.maxUploadBytes)
	}

	key := vpath.ObjectKey(tenant, vpath.Join(dest, clean), false)

	url, err := i.client.PresignPut(ctx, key, contentType, i.uploadExpiry)
	if err != nil {
		return nil, err
	}

	i.cache.Invalidate(cache.Key("list", vpath.ObjectKey(tenant, dest, true)))
	i.cache.Invalidate(cache.Key("search", tenant+"/"))

	return &UploadGrant{URL: url, Key: key, ExpiresIn: i.uploadExpiry}, nil
}

// DownloadURL checks that the object exists (a cached check, short TTL)
// and returns a presigned GET grant. A missing object is a not-found
// error, never a URL.
func (i *Issuer) DownloadURL(ctx context.Context, tenant, filePath string) (*DownloadGrant, error) {
	clean, err := vpath.Normalize(filePath)
	if err != nil {
		return nil, err
	}
	if clean == "" {
		return nil, errs.New(errs.ErrKindValidation, "file path must not be empty")
	}

	key := vpath.ObjectKey(tenant, clean, false)

	statKey := cache.Key("stat", key)
	if _, ok := i.cache.Get(statKey); !ok {
		meta, err := i.client.Head(ctx, key)
		if err != nil {
			if errs.IsNotFound(err) {
				return nil, errs.Newf(errs.ErrKindNotFound, "no object at %q", clean)
			}
			return nil, err
		}
		// Only positive results are cached: a negative entry would keep
		// returning 404 after the client's upload lands.
		i.cache.Set(statKey, meta, i.statTTL)
	}

	url, err := i.client.PresignGet(ctx, key, i.downloadExpiry)
	if err != nil {
		return nil, err
	}

	return &DownloadGrant{URL: url, ExpiresIn: i.downloadExpiry}, nil
}
