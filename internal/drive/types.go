// Package drive maps a flat object store into the hierarchical
// folder/file view drivefs presents to users.
//
// Folders are emulated with delimiter-based listings plus zero-byte
// marker objects for otherwise-empty folders. Uploads and downloads
// happen directly between the client and the store via presigned URLs.
// Reads go through a process-local TTL cache; every mutation hits the
// store first and then invalidates the affected cache prefixes.
//
// All entry points are on Facade; the Emulator, Issuer, and Search types
// it composes can also be used directly in tests.
package drive

import (
	"mime"
	"path"
	"strings"
	"time"

	"github.com/objvault/drivefs/internal/objstore"
	"github.com/objvault/drivefs/internal/vpath"
)

// FolderEntry is a virtual folder visible in a listing.
type FolderEntry struct {
	// Name is the folder's display name (last path segment).
	Name string `json:"name"`

	// Path is the tenant-relative virtual path of the folder.
	Path string `json:"path"`
}

// FileEntry is a stored object visible in a listing or search result.
// It is derived from listing/head responses and never persisted.
type FileEntry struct {
	// Key is the full object key, including the tenant prefix.
	Key string `json:"key"`

	// Name is the display name (last path segment).
	Name string `json:"name"`

	// Path is the tenant-relative virtual path.
	Path string `json:"path"`

	// Size is the object size in bytes.
	Size int64 `json:"size"`

	// MimeType is the object's content type, falling back to a guess
	// from the file extension when the store does not report one.
	MimeType string `json:"mimeType,omitempty"`

	// LastModified is when the object was last written.
	LastModified time.Time `json:"lastModified"`

	// IsFolder marks entries that are folder markers. Only search
	// results carry these; listings report folders separately.
	IsFolder bool `json:"isFolder,omitempty"`
}

// Listing is the content of one virtual folder.
type Listing struct {
	Folders []FolderEntry `json:"folders"`
	Files   []FileEntry   `json:"files"`
}

// SearchOptions filter and bound a search.
type SearchOptions struct {
	// MaxResults caps the returned entries. 0 uses the engine default.
	MaxResults int

	// MimeFilter, when non-empty, keeps only files whose MIME type has
	// this prefix (e.g. "image/"). Folder markers never match a filter.
	MimeFilter string
}

// SearchResult is the outcome of one search.
//
// TotalResults counts the returned (possibly truncated) set, not every
// match in the store — a true total would need a second unbounded pass.
type SearchResult struct {
	Files        []FileEntry `json:"files"`
	TotalResults int         `json:"totalResults"`
	Query        string      `json:"query"`
}

// UploadGrant is a presigned upload issued to a client. No object exists
// at Key until the client completes its PUT against URL.
type UploadGrant struct {
	URL       string        `json:"url"`
	Key       string        `json:"key"`
	ExpiresIn time.Duration `json:"expiresIn"`
}

// DownloadGrant is a presigned download issued to a client.
type DownloadGrant struct {
	URL       string        `json:"url"`
	ExpiresIn time.Duration `json:"expiresIn"`
}

// fileEntry builds a FileEntry for the object at meta, shown under the
// given tenant-relative virtual path.
func fileEntry(meta objstore.ObjectMeta, virtualPath string) FileEntry {
	name := vpath.BaseName(meta.Key)
	return FileEntry{
		Key:          meta.Key,
		Name:         name,
		Path:         virtualPath,
		Size:         meta.Size,
		MimeType:     contentTypeOf(meta),
		LastModified: meta.LastModified,
	}
}

// contentTypeOf returns the store-reported content type, or a guess from
// the key's extension. S3-style listing responses omit content types, so
// the fallback keeps listings and search filters useful without a head
// call per object.
func contentTypeOf(meta objstore.ObjectMeta) string {
	if meta.ContentType != "" {
		return meta.ContentType
	}
	ext := path.Ext(strings.TrimSuffix(meta.Key, "/"))
	if ext == "" {
		return ""
	}
	ct := mime.TypeByExtension(ext)
	// Strip charset parameters so prefix filters like "text/" behave.
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
