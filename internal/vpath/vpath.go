// Package vpath normalizes and validates the virtual paths drivefs shows
// to users and maps them onto flat object-store keys.
//
// A virtual path is tenant-relative, `/`-separated, has no leading slash
// and no trailing slash. Folder keys in the store additionally end in `/`
// so that delimited listings group them as common prefixes.
package vpath

import (
	"strings"

	"github.com/objvault/drivefs/internal/errs"
)

// MaxNameLen is the longest accepted file or folder name.
const MaxNameLen = 255

// forbidden are the characters rejected in file and folder names.
// The set matches what mainstream client filesystems refuse, so names
// accepted here survive a round-trip through a user's download folder.
const forbidden = `<>:"/\|?*`

// SanitizeName validates a single file or folder name and returns it
// trimmed of surrounding whitespace. It rejects empty or whitespace-only
// names, names longer than MaxNameLen, names containing any of
// `< > : " / \ | ? *` or control characters, and the reserved names
// "." and "..".
func SanitizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errs.New(errs.ErrKindValidation, "name must not be empty")
	}
	if len(trimmed) > MaxNameLen {
		return "", errs.Newf(errs.ErrKindValidation, "name exceeds %d characters", MaxNameLen)
	}
	if trimmed == "." || trimmed == ".." {
		return "", errs.Newf(errs.ErrKindValidation, "name %q is reserved", trimmed)
	}
	if i := strings.IndexAny(trimmed, forbidden); i >= 0 {
		return "", errs.Newf(errs.ErrKindValidation, "name contains forbidden character %q", trimmed[i])
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return "", errs.New(errs.ErrKindValidation, "name contains control characters")
		}
	}
	return trimmed, nil
}

// Join concatenates parent and name with exactly one `/` separator,
// collapsing duplicate slashes and stripping leading and trailing
// slashes. It is associative over pre-normalized segments:
// Join(Join(a,b),c) == Join(a, Join(b,c)).
func Join(parent, name string) string {
	joined := parent + "/" + name
	parts := strings.Split(joined, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "/")
}

// Normalize validates a caller-supplied virtual path and returns its
// canonical form: no leading/trailing slash, no empty segments. Paths
// containing `..` segments or control characters are rejected so a
// tenant can never address keys outside its own prefix. The empty path
// (tenant root) is valid and normalizes to "".
func Normalize(path string) (string, error) {
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return "", errs.New(errs.ErrKindValidation, "path contains control characters")
		}
	}
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if p == ".." {
			return "", errs.New(errs.ErrKindValidation, "path must not contain '..' segments")
		}
		segs = append(segs, p)
	}
	return strings.Join(segs, "/"), nil
}

// ObjectKey maps a tenant prefix and a normalized virtual path onto the
// flat store key: tenant + "/" + path, with a trailing "/" iff folder.
// The empty path addresses the tenant root.
func ObjectKey(tenantPrefix, virtualPath string, folder bool) string {
	key := tenantPrefix + "/"
	if virtualPath != "" {
		key += virtualPath
		if folder {
			key += "/"
		}
	}
	return key
}

// BaseName returns the last non-empty segment of a path or key.
// Trailing slashes (folder markers, common prefixes) are ignored.
func BaseName(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
