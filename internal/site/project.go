// Package site holds the build context shared by every build stage.
//
// Each structural field has exactly one writer: the scanner fills Files, Navs
// and the tag map, the resolver rewrites NavEntry.Content, navigation fills
// breadcrumbs, pagers and Tags, and rendering fills Body/TOC/anchors.
package site

import (
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/starford/skein/internal/hooks"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/siteerr"
)

// Project is the state of one build.
type Project struct {
	Root    string
	Options Options
	URLs    reflink.URLs
	Hooks   *hooks.Registry
	Report  siteerr.Reporter
	Logger  *slog.Logger

	// Site is the site metadata without its reflinks.
	Site     models.Metadata
	Reflinks []*models.SiteReflink

	Dir   *reflink.Directory
	Files []*models.ContentEntry
	Navs  []*models.NavEntry
	Tags  []*models.TagEntry

	// Layouts lists the non-null layouts in first-use order.
	Layouts []string

	tagMap   map[string][]*models.ContentEntry
	tagOrder []string
	layouts  map[string]string
}

// NewProject returns an empty project rooted at root.
func NewProject(root string, opts Options, reg *hooks.Registry, rep siteerr.Reporter, logger *slog.Logger) *Project {
	if reg == nil {
		reg = hooks.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rep == nil {
		rep = siteerr.LogReporter{Logger: logger}
	}
	return &Project{
		Root:    root,
		Options: opts,
		URLs:    reflink.URLs{Base: opts.BaseURL, LinkExt: opts.LinkExt},
		Hooks:   reg,
		Report:  rep,
		Logger:  logger,
		Site:    models.Metadata{},
		Dir:     reflink.NewDirectory(),
		tagMap:  make(map[string][]*models.ContentEntry),
		layouts: make(map[string]string),
	}
}

// Path returns the absolute path of a slash-separated project-relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// SiteDir returns the absolute output directory.
func (p *Project) SiteDir() string {
	return p.Options.SitePath(p.Root)
}

// Warn reports a non-fatal problem.
func (p *Project) Warn(kind error, value, file string) {
	p.Report.Warn(siteerr.NewWarning(kind, value, file))
}

// Register adds e to the directory under its id.
func (p *Project) Register(e models.Entity) error {
	return p.Dir.Register(e.Reflink().ID, e)
}

// UseLayout records that file uses layout.
func (p *Project) UseLayout(layout, file string) {
	if _, ok := p.layouts[layout]; ok {
		return
	}
	p.layouts[layout] = file
	p.Layouts = append(p.Layouts, layout)
}

// LayoutUser returns the first file that used layout.
func (p *Project) LayoutUser(layout string) string {
	return p.layouts[layout]
}

// AddTag records that e carries tag.
func (p *Project) AddTag(tag string, e *models.ContentEntry) {
	if _, ok := p.tagMap[tag]; !ok {
		p.tagOrder = append(p.tagOrder, tag)
	}
	p.tagMap[tag] = append(p.tagMap[tag], e)
}

// TagNames returns the distinct tags in sorted order.
func (p *Project) TagNames() []string {
	names := make([]string, len(p.tagOrder))
	copy(names, p.tagOrder)
	sort.Strings(names)
	return names
}

// Tagged returns the entries carrying tag in scan order.
func (p *Project) Tagged(tag string) []*models.ContentEntry {
	return p.tagMap[tag]
}

// DropTagMap releases the tag map once tag entries are built.
func (p *Project) DropTagMap() {
	p.tagMap = nil
	p.tagOrder = nil
}
