package drive

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/objstore"
)

// fakeStore is an in-memory objstore.Client with S3-style delimited,
// paginated listing semantics. Failure injection fields let tests force
// partial outcomes.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]objstore.ObjectMeta

	pageSize int // keys per page; 0 means everything in one page

	failCopy   map[string]error // srcKey → error
	failDelete map[string]error // key → error
	failPut    error
	failList   error

	listCalls int
	headCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:    make(map[string]objstore.ObjectMeta),
		failCopy:   make(map[string]error),
		failDelete: make(map[string]error),
	}
}

// put seeds an object. A key ending in "/" becomes a zero-byte marker.
func (f *fakeStore) put(key, contentType string, size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = objstore.ObjectMeta{
		Key:          key,
		Size:         size,
		ContentType:  contentType,
		ETag:         fmt.Sprintf("etag-%s", key),
		LastModified: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeStore) List(_ context.Context, prefix, delimiter, token string) (*objstore.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if token != "" {
		start, _ = strconv.Atoi(token)
	}

	page := &objstore.Page{}
	seen := map[string]bool{}
	count := 0
	i := start
	for ; i < len(keys); i++ {
		if f.pageSize > 0 && count >= f.pageSize {
			page.Truncated = true
			page.NextToken = strconv.Itoa(i)
			break
		}
		key := keys[i]
		rest := key[len(prefix):]
		// S3 grouping: any delimiter in the suffix collapses the key into
		// a common prefix. The prefix's own marker has an empty suffix and
		// stays a direct object.
		if delimiter != "" && strings.Contains(rest, delimiter) {
			cp := prefix + rest[:strings.Index(rest, delimiter)+1]
			if !seen[cp] {
				seen[cp] = true
				page.CommonPrefixes = append(page.CommonPrefixes, cp)
				count++
			}
			continue
		}
		page.Objects = append(page.Objects, f.objects[key])
		count++
	}
	return page, nil
}

func (f *fakeStore) PresignPut(_ context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://store.test/%s?method=PUT&ct=%s&exp=%d", key, contentType, int(expiry.Seconds())), nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://store.test/%s?method=GET&exp=%d", key, int(expiry.Seconds())), nil
}

func (f *fakeStore) Head(_ context.Context, key string) (*objstore.ObjectMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headCalls++
	meta, ok := f.objects[key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "no object at %q", key)
	}
	return &meta, nil
}

func (f *fakeStore) PutMarker(_ context.Context, key string) error {
	if f.failPut != nil {
		return f.failPut
	}
	f.put(key, "", 0)
	return nil
}

func (f *fakeStore) Copy(_ context.Context, srcKey, dstKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failCopy[srcKey]; err != nil {
		return err
	}
	meta, ok := f.objects[srcKey]
	if !ok {
		return errs.Newf(errs.ErrKindNotFound, "no object at %q", srcKey)
	}
	meta.Key = dstKey
	f.objects[dstKey] = meta
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failDelete[key]; err != nil {
		return err
	}
	delete(f.objects, key)
	return nil
}
