package drive

import (
	"context"
	"strings"
	"time"

	"github.com/objvault/drivefs/internal/cache"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/logger"
	"github.com/objvault/drivefs/internal/objstore"
)

// Options configures a Facade. Client and Cache are required; zero
// values elsewhere fall back to the defaults noted per field.
type Options struct {
	Client objstore.Client
	Cache  cache.Store

	ListTTL time.Duration // cached listings/search results; default 5m
	StatTTL time.Duration // cached existence checks; default 30s

	MaxListPages   int   // page budget per listing; default 100
	MaxUploadBytes int64 // upload size ceiling; default 5 GiB

	UploadExpiry   time.Duration // presigned PUT lifetime; default 15m
	DownloadExpiry time.Duration // presigned GET lifetime; default 1h

	SearchMaxResults int // default search result cap; default 50

	Logger *logger.Logger
}

func (o *Options) withDefaults() {
	if o.ListTTL <= 0 {
		o.ListTTL = 5 * time.Minute
	}
	if o.StatTTL <= 0 {
		o.StatTTL = 30 * time.Second
	}
	if o.MaxListPages <= 0 {
		o.MaxListPages = 100
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 5 << 30
	}
	if o.UploadExpiry <= 0 {
		o.UploadExpiry = 15 * time.Minute
	}
	if o.DownloadExpiry <= 0 {
		o.DownloadExpiry = time.Hour
	}
	if o.SearchMaxResults <= 0 {
		o.SearchMaxResults = 50
	}
	if o.Logger == nil {
		o.Logger = logger.New(nil)
	}
}

// Facade is the single entry point request handlers consume. It
// validates the tenant on every call so no operation can touch a key
// outside the caller's namespace, and applies the read-through /
// invalidate-on-write cache policy through the components it composes.
type Facade struct {
	folders *Emulator
	urls    *Issuer
	search  *Search
	cache   cache.Store
}

// NewFacade composes the folder emulator, URL issuer, and search engine
// over one shared client and cache.
func NewFacade(opts Options) *Facade {
	opts.withDefaults()
	return &Facade{
		folders: NewEmulator(opts.Client, opts.Cache, opts.ListTTL, opts.MaxListPages, opts.Logger),
		urls:    NewIssuer(opts.Client, opts.Cache, opts.StatTTL, opts.MaxUploadBytes, opts.UploadExpiry, opts.DownloadExpiry),
		search:  NewSearch(opts.Client, opts.Cache, opts.ListTTL, opts.MaxListPages, opts.SearchMaxResults),
		cache:   opts.Cache,
	}
}

// CreateFolder creates a virtual folder named name under parentPath.
func (f *Facade) CreateFolder(ctx context.Context, tenant, name, parentPath string) (*FolderEntry, error) {
	if err := validTenant(tenant); err != nil {
		return nil, err
	}
	return f.folders.CreateFolder(ctx, tenant, name, parentPath)
}

// ListFolderContents returns the folders and files directly under
// parentPath. The empty path lists the tenant root.
func (f *Facade) ListFolderContents(ctx context.Context, tenant, parentPath string) (*Listing, error) {
	if err := validTenant(tenant); err != nil {
		return nil, err
	}
	return f.folders.List(ctx, tenant, parentPath)
}

// GetUploadPresignedURL issues a time-bound PUT grant for a new object
// named fileName under destPath.
func (f *Facade) GetUploadPresignedURL(ctx context.Context, tenant, fileName, contentType string, fileSize int64, destPath string) (*UploadGrant, error) {
	if err := validTenant(tenant); err != nil {
		return nil, err
	}
	return f.urls.UploadURL(ctx, tenant, fileName, contentType, fileSize, destPath)
}

// GetDownloadURL issues a time-bound GET grant for the object at
// filePath, or a not-found error when no such object exists.
func (f *Facade) GetDownloadURL(ctx context.Context, tenant, filePath string) (*DownloadGrant, error) {
	if err := validTenant(tenant); err != nil {
		return nil, err
	}
	return f.urls.DownloadURL(ctx, tenant, filePath)
}

// SearchFiles returns the tenant's objects whose name matches query.
func (f *Facade) SearchFiles(ctx context.Context, tenant, query string, opts SearchOptions) (*SearchResult, error) {
	if err := validTenant(tenant); err != nil {
		return nil, err
	}
	return f.search.Run(ctx, tenant, query, opts)
}

// DeleteOrRenamePath deletes the file or folder at path when newPath is
// empty, and renames (moves) it to newPath otherwise. Both forms are
// best-effort over multiple keys: a PartialError reports any keys left
// unreconciled.
func (f *Facade) DeleteOrRenamePath(ctx context.Context, tenant, path, newPath string) error {
	if err := validTenant(tenant); err != nil {
		return err
	}
	if newPath == "" {
		return f.folders.Remove(ctx, tenant, path)
	}
	return f.folders.Rename(ctx, tenant, path, newPath)
}

// ClearCache empties the shared cache. Administrative/test use only.
func (f *Facade) ClearCache() {
	f.cache.Clear()
}

// validTenant rejects tenant prefixes that could escape their namespace
// or collide with the key scheme.
func validTenant(tenant string) error {
	if tenant == "" {
		return errs.New(errs.ErrKindValidation, "tenant must not be empty")
	}
	if len(tenant) > 128 {
		return errs.New(errs.ErrKindValidation, "tenant exceeds 128 characters")
	}
	if strings.ContainsAny(tenant, "/!") {
		return errs.New(errs.ErrKindValidation, "tenant contains reserved characters")
	}
	for _, r := range tenant {
		if r <= 0x20 || r == 0x7f {
			return errs.New(errs.ErrKindValidation, "tenant contains whitespace or control characters")
		}
	}
	return nil
}
