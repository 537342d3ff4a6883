// Package reflink computes canonical ids and URLs and holds the site-wide
// directory that maps ids to entities.
package reflink

import (
	"path"
	"strings"
)

// Components splits a slash-separated relative path into segments. A leading
// "./" and surrounding slashes are dropped; with hasExt the extension of the
// last segment is stripped.
func Components(p string, hasExt bool) []string {
	if hasExt {
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if p == "." {
		p = ""
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// MakeID returns the canonical id for path components.
func MakeID(components []string) string {
	return strings.ToLower("/" + strings.Join(components, "/"))
}

// Normalize resolves ref against the directory dir (given as components) and
// returns the id of the result. Absolute refs ignore dir.
func Normalize(dir []string, ref string) string {
	var p string
	if strings.HasPrefix(ref, "/") {
		p = path.Clean(ref)
	} else {
		p = path.Join("/"+strings.Join(dir, "/"), ref)
	}
	return MakeID(Components(p, false))
}

// URLs derives site URLs from path components.
type URLs struct {
	// Base is an optional path prefix without slashes.
	Base string
	// LinkExt is appended to content URLs.
	LinkExt string
}

func (u URLs) prefix() string {
	if u.Base == "" {
		return ""
	}
	return "/" + u.Base
}

// Content returns the URL of a content file.
func (u URLs) Content(components []string) string {
	return u.prefix() + "/" + strings.Join(components, "/") + u.LinkExt
}

// Dir returns the URL of a directory; it always ends with a slash.
func (u URLs) Dir(components []string) string {
	if len(components) == 0 {
		return u.prefix() + "/"
	}
	return u.prefix() + "/" + strings.Join(components, "/") + "/"
}
