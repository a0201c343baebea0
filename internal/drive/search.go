package drive

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/objvault/drivefs/internal/cache"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/objstore"
	"github.com/objvault/drivefs/internal/vpath"
)

// minQueryLen rejects one-character queries, which would match most of a
// tenant's objects and force a full enumeration for little value.
const minQueryLen = 2

// Search filters a tenant's objects by name and MIME type. It enumerates
// the whole tenant prefix through the same bounded pagination as folder
// listings, so a pathological tenant fails with a truncation error
// instead of exhausting memory.
type Search struct {
	client     objstore.Client
	cache      cache.Store
	ttl        time.Duration
	maxPages   int
	defaultMax int
}

// NewSearch wires a search engine. defaultMax applies when a caller does
// not bound its own result count.
func NewSearch(client objstore.Client, store cache.Store, ttl time.Duration, maxPages, defaultMax int) *Search {
	return &Search{
		client:     client,
		cache:      store,
		ttl:        ttl,
		maxPages:   maxPages,
		defaultMax: defaultMax,
	}
}

// Run returns the tenant's objects whose base name contains query,
// case-insensitively. Folder markers match on their folder name but are
// excluded when a MIME filter is set, since markers carry no content
// type.
//
// TotalResults counts the truncated returned set, not all matches in the
// store; see SearchResult.
func (s *Search) Run(ctx context.Context, tenant, query string, opts SearchOptions) (*SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minQueryLen {
		return nil, errs.Newf(errs.ErrKindValidation, "query must be at least %d characters", minQueryLen)
	}

	max := opts.MaxResults
	if max <= 0 {
		max = s.defaultMax
	}
	needle := strings.ToLower(trimmed)

	cacheKey := cache.Key("search", tenant+"/", needle, opts.MimeFilter, strconv.Itoa(max))
	if hit, ok := s.cache.Get(cacheKey); ok {
		if result, ok := hit.(*SearchResult); ok {
			return result, nil
		}
	}

	// Recursive enumeration: no delimiter, so every key under the tenant
	// prefix arrives as a direct object.
	objects, _, err := collectPages(ctx, s.client, tenant+"/", "", s.maxPages)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Files: []FileEntry{}, Query: trimmed}
	for _, obj := range objects {
		if len(result.Files) >= max {
			break
		}

		isMarker := strings.HasSuffix(obj.Key, objstore.Delimiter)
		name := vpath.BaseName(obj.Key)
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}

		if isMarker {
			if opts.MimeFilter != "" {
				continue
			}
			entry := fileEntry(obj, s.virtualPath(tenant, obj.Key))
			entry.IsFolder = true
			entry.MimeType = ""
			result.Files = append(result.Files, entry)
			continue
		}

		entry := fileEntry(obj, s.virtualPath(tenant, obj.Key))
		if opts.MimeFilter != "" && !strings.HasPrefix(entry.MimeType, opts.MimeFilter) {
			continue
		}
		result.Files = append(result.Files, entry)
	}
	result.TotalResults = len(result.Files)

	s.cache.Set(cacheKey, result, s.ttl)
	return result, nil
}

// virtualPath strips the tenant prefix and any trailing delimiter from a
// key, yielding the tenant-relative path shown to the user.
func (s *Search) virtualPath(tenant, key string) string {
	p := strings.TrimPrefix(key, tenant+"/")
	return strings.TrimSuffix(p, objstore.Delimiter)
}
