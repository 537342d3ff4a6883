// Package models defines the entities of the site graph.
package models

import (
	"html/template"
	"time"
)

// Ref holds the fields every navigable entity shares. Prev and Next are
// filled by the pager pass for members of a directory's content list.
type Ref struct {
	ID    string
	URL   string
	Title string
	Meta  Metadata
	Prev  Entity
	Next  Entity
}

// Entity is anything the reflink directory can resolve to.
type Entity interface {
	// Reflink returns the shared navigation fields.
	Reflink() *Ref
	// Source names where the entity was declared, for error messages.
	Source() string
}

// ContentEntry is one Markdown source file.
type ContentEntry struct {
	Ref
	Path       string
	Components []string
	ModTime    time.Time
	// Layout is empty for the null layout.
	Layout string
	Tags   []string
	// Markdown is the file body with the front matter removed.
	Markdown []byte

	Body        template.HTML
	TOC         template.HTML
	Breadcrumbs []Entity
	// Content mirrors the directory's resolved content on index files.
	Content []Entity

	Anchors    map[string]struct{}
	AnchorRefs []AnchorRef
}

func (e *ContentEntry) Reflink() *Ref  { return &e.Ref }
func (e *ContentEntry) Source() string { return e.Path }

// Rendered reports whether the entry produces an output page.
func (e *ContentEntry) Rendered() bool { return e.Layout != "" }

// Date returns the front-matter date, falling back to the file mtime.
func (e *ContentEntry) Date() time.Time {
	if t, ok := e.Meta["date"].Time(); ok {
		return t
	}
	return e.ModTime
}

// IsIndex reports whether the entry is a directory index file.
func (e *ContentEntry) IsIndex() bool {
	return len(e.Components) > 0 && e.Components[len(e.Components)-1] == IndexName
}

// IndexName is the base name (without extension) of directory index files.
const IndexName = "index"

// NavEntry is a content directory, derived from its index file.
type NavEntry struct {
	Ref
	Dir        string
	Components []string
	IndexPath  string

	// RawContent is the author's content list before resolution.
	RawContent []Value
	HasContent bool
	Order      string
	Reverse    bool

	Content []Entity
}

func (n *NavEntry) Reflink() *Ref  { return &n.Ref }
func (n *NavEntry) Source() string { return n.IndexPath }

// TagEntry aggregates every entry carrying one tag.
type TagEntry struct {
	Ref
	Tag     string
	Content []Entity
}

func (t *TagEntry) Reflink() *Ref  { return &t.Ref }
func (t *TagEntry) Source() string { return "tag '" + t.Tag + "'" }

// SiteReflink is a link target declared in the site metadata file.
type SiteReflink struct {
	Ref
	Name string
	File string
}

func (s *SiteReflink) Reflink() *Ref  { return &s.Ref }
func (s *SiteReflink) Source() string { return s.File }

// Link is a resolved link specification from a content list. Target is nil
// for free-standing url/title links.
type Link struct {
	Ref
	Target Entity
	From   string
}

func (l *Link) Reflink() *Ref  { return &l.Ref }
func (l *Link) Source() string { return l.From }

// AnchorRef is a cross-page fragment reference found during conversion.
type AnchorRef struct {
	Target   Entity
	Fragment string
	Label    string
}
