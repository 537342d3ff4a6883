// Package scanner walks the project tree and builds content and directory
// entries from Markdown files with YAML front matter.
package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/skein/internal/frontmatter"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// Scan walks p.Root, filling p.Files and p.Navs, registering every entry in
// the directory and recording tags. Files are visited before subdirectories,
// each in lexical order.
func Scan(p *site.Project) error {
	s := &scan{
		p:      p,
		ignore: NewMatcher(DefaultIgnore, p.Options.IgnorePatterns),
	}
	if rel, err := filepath.Rel(p.Root, p.SiteDir()); err == nil && !strings.HasPrefix(rel, "..") {
		s.siteDir = filepath.ToSlash(rel)
	}
	return s.dir("")
}

type scan struct {
	p       *site.Project
	ignore  *Matcher
	siteDir string
}

func (s *scan) dir(rel string) error {
	entries, err := os.ReadDir(s.p.Path(rel))
	if err != nil {
		return fmt.Errorf("scanner: read dir %s: %w", displayDir(rel), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	hasIndex, hasContent := false, false
	for _, de := range entries {
		name := de.Name()
		if s.ignore.Match(name) {
			continue
		}
		relName := path.Join(rel, name)
		if de.IsDir() {
			if relName != s.siteDir {
				subdirs = append(subdirs, relName)
			}
			continue
		}
		if ok, _ := path.Match(site.ContentGlob, name); !ok {
			continue
		}
		added, err := s.file(relName)
		if err != nil {
			return err
		}
		if !added {
			continue
		}
		if name == site.IndexFile {
			hasIndex = true
		} else {
			hasContent = true
		}
	}
	if hasContent && !hasIndex {
		return siteerr.New(siteerr.ErrNoIndex, site.IndexFile, displayDir(rel))
	}
	for _, sub := range subdirs {
		if err := s.dir(sub); err != nil {
			return err
		}
	}
	return nil
}

// file builds the entries for one Markdown file. It reports false when the
// file was skipped for lack of front matter.
func (s *scan) file(rel string) (bool, error) {
	abs := s.p.Path(rel)
	doc, ok, err := frontmatter.ReadFile(abs)
	if err != nil {
		return false, err
	}
	if !ok {
		s.p.Warn(siteerr.WarnNoFrontMatter, "", rel)
		return false, nil
	}
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("scanner: stat %s: %w", rel, err)
	}

	e, err := s.content(rel, doc, info.ModTime())
	if err != nil {
		return false, err
	}
	if path.Base(rel) == site.IndexFile {
		if err := s.nav(rel, e); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *scan) content(rel string, doc *frontmatter.Document, mtime time.Time) (*models.ContentEntry, error) {
	comps := reflink.Components(rel, true)
	e := &models.ContentEntry{
		Ref: models.Ref{
			ID:   reflink.MakeID(comps),
			URL:  s.p.URLs.Content(comps),
			Meta: doc.Meta,
		},
		Path:       rel,
		Components: comps,
		ModTime:    mtime,
		Markdown:   doc.Body,
	}
	s.p.Files = append(s.p.Files, e)
	if err := s.validate(e); err != nil {
		return nil, err
	}
	if err := s.p.Register(e); err != nil {
		return nil, err
	}
	if e.Rendered() {
		for _, tag := range e.Tags {
			s.p.AddTag(tag, e)
		}
	}
	return e, nil
}

// validate checks the metadata of a content entry right after it is built,
// running the layout's validator first since it may rewrite attributes.
func (s *scan) validate(e *models.ContentEntry) error {
	meta := e.Meta
	if !meta.Has("layout") {
		return siteerr.New(siteerr.ErrUndefinedAttr, "layout", e.Path)
	}
	layout, err := layoutName(meta, e.Path)
	if err != nil {
		return err
	}
	if v, ok := s.p.Hooks.Validator(layout); ok && layout != "" {
		if err := v(meta); err != nil {
			return siteerr.Wrap(siteerr.ErrValidator, layout, e.Path, err)
		}
		if layout, err = layoutName(meta, e.Path); err != nil {
			return err
		}
	}
	e.Layout = layout
	if layout == "" {
		return nil
	}
	s.p.UseLayout(layout, e.Path)

	title, ok, err := meta.GetScalar("title")
	if err != nil {
		return siteerr.Wrap(siteerr.ErrWrongType, "title", e.Path, err)
	}
	if !ok {
		return siteerr.New(siteerr.ErrUndefinedAttr, "title", e.Path)
	}
	e.Title = title

	if _, _, err := meta.GetDate("date"); err != nil {
		return siteerr.New(siteerr.ErrDateFormat, meta["date"].String(), e.Path)
	}
	tags, err := meta.GetStrings("tags")
	if err != nil {
		return siteerr.Wrap(siteerr.ErrWrongType, "tags", e.Path, err)
	}
	e.Tags = tags
	return nil
}

// layoutName returns the layout of meta, "" for the null layout.
func layoutName(meta models.Metadata, file string) (string, error) {
	v := meta["layout"]
	if v.IsNull() {
		return "", nil
	}
	name, ok := v.Str()
	if !ok {
		return "", siteerr.Wrap(siteerr.ErrWrongType, "layout", file,
			&models.TypeError{Key: "layout", Want: models.KindString, Got: v.Kind()})
	}
	if name == site.NullLayout {
		return "", nil
	}
	return name, nil
}

// nav derives the directory entry from an index file.
func (s *scan) nav(rel string, index *models.ContentEntry) error {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	comps := reflink.Components(dir, false)
	meta := index.Meta.Clone()
	n := &models.NavEntry{
		Ref: models.Ref{
			ID:    reflink.MakeID(comps),
			URL:   s.p.URLs.Dir(comps),
			Title: index.Title,
			Meta:  meta,
		},
		Dir:        dir,
		Components: comps,
		IndexPath:  rel,
	}
	s.p.Navs = append(s.p.Navs, n)
	if err := validateNav(n); err != nil {
		return err
	}
	return s.p.Register(n)
}

func validateNav(n *models.NavEntry) error {
	meta := n.Meta
	items, hasContent, err := meta.GetList("content")
	if err != nil {
		return siteerr.Wrap(siteerr.ErrWrongType, "content", n.IndexPath, err)
	}
	order, hasOrder, err := meta.GetString("order")
	if err != nil {
		return siteerr.Wrap(siteerr.ErrWrongType, "order", n.IndexPath, err)
	}
	reverse, _, err := meta.GetBool("reverse")
	if err != nil {
		return siteerr.Wrap(siteerr.ErrWrongType, "reverse", n.IndexPath, err)
	}
	switch {
	case hasContent:
		n.RawContent = items
		n.HasContent = true
	case hasOrder:
		n.Order = order
		n.Reverse = reverse
	case n.ID == site.TagRootID:
		n.HasContent = true
	default:
		return siteerr.New(siteerr.ErrUndefinedContent, "", n.IndexPath)
	}
	return nil
}

func displayDir(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
