// Package build runs the site build: load site info, scan, resolve,
// derive navigation and tags, render and write the site, check anchors.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/skein/internal/hooks"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/navigation"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/render"
	"github.com/starford/skein/internal/resolve"
	"github.com/starford/skein/internal/scanner"
	"github.com/starford/skein/internal/search"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
	"github.com/starford/skein/internal/storage"
)

// State is a stage of the build. Each stage completes before the next
// starts; a fatal error leaves the build in the last completed state.
type State int

const (
	Init State = iota
	SiteInfoLoaded
	Scanned
	Resolved
	NavigationBuilt
	TagsProcessed
	SiteWritten
	AnchorsChecked
)

var stateNames = [...]string{
	Init:            "init",
	SiteInfoLoaded:  "site_info_loaded",
	Scanned:         "scanned",
	Resolved:        "resolved",
	NavigationBuilt: "navigation_built",
	TagsProcessed:   "tags_processed",
	SiteWritten:     "site_written",
	AnchorsChecked:  "anchors_checked",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Config describes one build.
type Config struct {
	Root    string
	Options site.Options
	Hooks   *hooks.Registry
	// Reporter receives warnings; nil logs them.
	Reporter siteerr.Reporter
	Logger   *slog.Logger
}

// Result is the finished site graph and what was written.
type Result struct {
	State    State
	Files    []*models.ContentEntry
	Navs     []*models.NavEntry
	Tags     []*models.TagEntry
	Reflinks []*models.SiteReflink
	Dir      *reflink.Directory
	// Pages lists the written page paths relative to the site directory.
	Pages   []string
	Records []search.Record
	// Output inventories the site directory after promotion.
	Output   []storage.File
	Warnings int
	Elapsed  time.Duration
}

// Run builds the site described by cfg. On error the returned Result holds
// the state reached before the failing stage.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	counter := &siteerr.Collector{}
	var rep siteerr.Reporter = siteerr.LogReporter{Logger: logger}
	if cfg.Reporter != nil {
		rep = cfg.Reporter
	}
	p := site.NewProject(cfg.Root, cfg.Options, cfg.Hooks, siteerr.Multi(rep, counter), logger)

	b := &builder{p: p, logger: logger}
	res := &Result{}
	err := b.run(ctx, res)
	res.State = b.state
	res.Files, res.Navs, res.Tags, res.Reflinks, res.Dir = p.Files, p.Navs, p.Tags, p.Reflinks, p.Dir
	res.Warnings = len(counter.Warnings())
	res.Elapsed = time.Since(start)
	if err != nil {
		logger.Debug("build failed", slog.String("state", b.state.String()), slog.String("error", err.Error()))
		return res, err
	}
	logger.Info("build finished",
		slog.Int("pages", len(res.Pages)),
		slog.Int("tags", len(res.Tags)),
		slog.Int("files", len(res.Output)),
		slog.Int("warnings", res.Warnings),
		slog.Duration("elapsed", res.Elapsed))
	return res, nil
}

type builder struct {
	p      *site.Project
	logger *slog.Logger
	state  State
}

type stage struct {
	next State
	run  func() error
}

func (b *builder) run(ctx context.Context, res *Result) error {
	stages := []stage{
		{SiteInfoLoaded, func() error { return loadSiteInfo(b.p) }},
		{Scanned, func() error { return scanner.Scan(b.p) }},
		{Resolved, func() error { return resolve.Navs(b.p) }},
		{NavigationBuilt, b.navigation},
		{TagsProcessed, b.tags},
		{SiteWritten, func() error { return b.write(res) }},
		{AnchorsChecked, func() error { checkAnchors(b.p); return nil }},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.run(); err != nil {
			return err
		}
		b.state = s.next
		b.logger.Debug("build state", slog.String("state", b.state.String()))
	}
	return nil
}

func (b *builder) navigation() error {
	if err := navigation.Breadcrumbs(b.p); err != nil {
		return err
	}
	navigation.Pagers(b.p)
	return nil
}

func (b *builder) tags() error {
	haveLayout := render.HasLayout(b.p.Path(site.LayoutDir), site.TagLayout)
	if err := navigation.Tags(b.p, haveLayout); err != nil {
		return err
	}
	if len(b.p.Tags) > 0 {
		b.p.UseLayout(site.TagLayout, site.TagRootID)
	}
	return nil
}

// checkAnchors warns about fragment references to anchors the target page
// does not define. Targets without a page of their own are not checked.
func checkAnchors(p *site.Project) {
	for _, f := range p.Files {
		for _, ref := range f.AnchorRefs {
			target := anchorPage(p, ref.Target)
			if target == nil {
				continue
			}
			if _, ok := target.Anchors[ref.Fragment]; !ok {
				p.Warn(siteerr.WarnUndefinedAnchor, ref.Label, f.Path)
			}
		}
	}
}

func anchorPage(p *site.Project, e models.Entity) *models.ContentEntry {
	switch t := e.(type) {
	case *models.ContentEntry:
		return t
	case *models.NavEntry:
		idx, ok := p.Dir.Lookup(reflink.MakeID(append(append([]string{}, t.Components...), models.IndexName)))
		if !ok {
			return nil
		}
		f, _ := idx.(*models.ContentEntry)
		return f
	}
	return nil
}
