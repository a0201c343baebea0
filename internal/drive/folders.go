package drive

import (
	"context"
	"strings"
	"time"

	"github.com/objvault/drivefs/internal/cache"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/logger"
	"github.com/objvault/drivefs/internal/objstore"
	"github.com/objvault/drivefs/internal/vpath"
)

// Emulator builds and lists virtual folders over the flat store using
// marker objects and delimiter-based listings.
type Emulator struct {
	client   objstore.Client
	cache    cache.Store
	listTTL  time.Duration
	maxPages int
	log      *logger.Logger
}

// NewEmulator wires a folder emulator. maxPages bounds how many listing
// pages one operation aggregates; listTTL applies to cached listings.
func NewEmulator(client objstore.Client, store cache.Store, listTTL time.Duration, maxPages int, log *logger.Logger) *Emulator {
	if log == nil {
		log = logger.New(nil)
	}
	return &Emulator{
		client:   client,
		cache:    store,
		listTTL:  listTTL,
		maxPages: maxPages,
		log:      log,
	}
}

// CreateFolder writes a zero-byte marker so the new (empty) folder shows
// up in listings, then invalidates the parent's cached listing. A
// non-empty folder does not need a marker — its existence is inferred
// from any child key — but explicit creation always writes one so empty
// folders stay visible.
func (e *Emulator) CreateFolder(ctx context.Context, tenant, name, parentPath string) (*FolderEntry, error) {
	clean, err := vpath.SanitizeName(name)
	if err != nil {
		return nil, err
	}
	parent, err := vpath.Normalize(parentPath)
	if err != nil {
		return nil, err
	}

	folderPath := vpath.Join(parent, clean)
	key := vpath.ObjectKey(tenant, folderPath, true)

	if err := e.client.PutMarker(ctx, key); err != nil {
		return nil, err
	}

	e.invalidateListing(tenant, parent)
	return &FolderEntry{Name: clean, Path: folderPath}, nil
}

// List returns the direct contents of one virtual folder, read through
// the cache. Common prefixes become folder entries, direct keys become
// file entries, and the folder's own marker is excluded.
func (e *Emulator) List(ctx context.Context, tenant, parentPath string) (*Listing, error) {
	parent, err := vpath.Normalize(parentPath)
	if err != nil {
		return nil, err
	}
	prefix := vpath.ObjectKey(tenant, parent, true)

	cacheKey := cache.Key("list", prefix)
	if hit, ok := e.cache.Get(cacheKey); ok {
		if listing, ok := hit.(*Listing); ok {
			return listing, nil
		}
		// Wrong shape under this key — treat as a miss.
	}

	objects, prefixes, err := collectPages(ctx, e.client, prefix, objstore.Delimiter, e.maxPages)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Folders: []FolderEntry{}, Files: []FileEntry{}}
	for _, cp := range prefixes {
		name := vpath.BaseName(cp)
		listing.Folders = append(listing.Folders, FolderEntry{
			Name: name,
			Path: vpath.Join(parent, name),
		})
	}
	for _, obj := range objects {
		// The prefix's own marker lists as a direct key; it is the
		// folder itself, not content.
		if obj.Key == prefix || strings.HasSuffix(obj.Key, objstore.Delimiter) {
			continue
		}
		listing.Files = append(listing.Files, fileEntry(obj, vpath.Join(parent, vpath.BaseName(obj.Key))))
	}

	e.cache.Set(cacheKey, listing, e.listTTL)
	return listing, nil
}

// Remove deletes the file or folder at path: every key under the
// folder's prefix (marker included) plus the exact key when path names a
// file. Individual delete failures are collected into a PartialError;
// the affected cache prefixes are invalidated regardless.
func (e *Emulator) Remove(ctx context.Context, tenant, path string) error {
	clean, err := vpath.Normalize(path)
	if err != nil {
		return err
	}
	if clean == "" {
		return errs.New(errs.ErrKindValidation, "cannot delete the tenant root")
	}

	keys, err := e.enumerate(ctx, tenant, clean)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return errs.Newf(errs.ErrKindNotFound, "no object or folder at %q", clean)
	}

	report := &errs.PartialError{Op: "delete"}
	for _, key := range keys {
		if err := e.client.Delete(ctx, key); err != nil {
			report.Failed = append(report.Failed, errs.KeyOutcome{Key: key, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, key)
	}

	e.invalidateSubtree(tenant, clean)

	if len(report.Failed) > 0 {
		e.log.Warnf("delete of %s/%s left %d key(s) behind", tenant, clean, len(report.Failed))
		return report
	}
	return nil
}

// Rename moves the file or folder at oldPath to newPath by copying every
// enumerated key to the new prefix and then deleting the old keys. The
// store has no cross-object transaction: the copy phase stops at the
// first failure and the returned PartialError reports which keys were
// fully moved, which failed, and which were never attempted, so the
// caller can reconcile.
func (e *Emulator) Rename(ctx context.Context, tenant, oldPath, newPath string) error {
	oldClean, err := vpath.Normalize(oldPath)
	if err != nil {
		return err
	}
	newClean, err := vpath.Normalize(newPath)
	if err != nil {
		return err
	}
	if oldClean == "" || newClean == "" {
		return errs.New(errs.ErrKindValidation, "rename requires non-root source and destination paths")
	}
	if _, err := vpath.SanitizeName(vpath.BaseName(newClean)); err != nil {
		return err
	}
	if oldClean == newClean {
		return errs.New(errs.ErrKindValidation, "source and destination are the same path")
	}
	if strings.HasPrefix(newClean, oldClean+"/") {
		return errs.New(errs.ErrKindValidation, "cannot move a folder into itself")
	}

	keys, err := e.enumerate(ctx, tenant, oldClean)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return errs.Newf(errs.ErrKindNotFound, "no object or folder at %q", oldClean)
	}

	srcBase := vpath.ObjectKey(tenant, oldClean, false)
	dstBase := vpath.ObjectKey(tenant, newClean, false)

	report := &errs.PartialError{Op: "rename"}
	copied := make([]string, 0, len(keys))

	for i, key := range keys {
		dstKey := dstBase + strings.TrimPrefix(key, srcBase)
		if err := e.client.Copy(ctx, key, dstKey); err != nil {
			report.Failed = append(report.Failed, errs.KeyOutcome{Key: key, Err: err})
			for _, rest := range keys[i+1:] {
				report.Failed = append(report.Failed, errs.KeyOutcome{
					Key: rest,
					Err: errs.New(errs.ErrKindUpstream, "not attempted: aborted after earlier copy failure"),
				})
			}
			break
		}
		copied = append(copied, key)
	}

	// Source cleanup runs only over keys whose copies landed.
	for _, key := range copied {
		if err := e.client.Delete(ctx, key); err != nil {
			report.Failed = append(report.Failed, errs.KeyOutcome{Key: key, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, key)
	}

	e.invalidateSubtree(tenant, oldClean)
	e.invalidateListing(tenant, parentOf(newClean))

	if len(report.Failed) > 0 {
		e.log.Warnf("rename %s/%s -> %s left %d key(s) unreconciled", tenant, oldClean, newClean, len(report.Failed))
		return report
	}
	return nil
}

// enumerate returns every key that path addresses: the exact object key
// when a file exists there, plus all keys under the folder prefix
// (including the folder's own marker). The trailing delimiter on the
// folder prefix keeps similarly-named siblings out of the result.
func (e *Emulator) enumerate(ctx context.Context, tenant, path string) ([]string, error) {
	folderPrefix := vpath.ObjectKey(tenant, path, true)

	objects, _, err := collectPages(ctx, e.client, folderPrefix, "", e.maxPages)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects)+1)

	exactKey := vpath.ObjectKey(tenant, path, false)
	if _, err := e.client.Head(ctx, exactKey); err == nil {
		keys = append(keys, exactKey)
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// invalidateListing drops the cached listing of one folder.
func (e *Emulator) invalidateListing(tenant, parentPath string) {
	e.cache.Invalidate(cache.Key("list", vpath.ObjectKey(tenant, parentPath, true)))
	e.cache.Invalidate(cache.Key("search", tenant+"/"))
}

// invalidateSubtree drops every cached entry touching path or anything
// under it, plus the parent listing that named it. The trailing
// delimiter keeps entries for similarly-named sibling paths intact.
func (e *Emulator) invalidateSubtree(tenant, path string) {
	e.cache.Invalidate(vpath.ObjectKey(tenant, path, true))
	e.cache.Invalidate(cache.Key("stat", vpath.ObjectKey(tenant, path, false)))
	e.invalidateListing(tenant, parentOf(path))
}

// parentOf returns the parent virtual path of a normalized path, or ""
// for top-level entries.
func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}
