package build

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/skein/internal/markdown"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/render"
	"github.com/starford/skein/internal/scanner"
	"github.com/starford/skein/internal/search"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/storage"
)

type page struct {
	path string
	html []byte
}

// write converts and renders every page in memory, and only then replaces
// the previous output, so a failing page leaves the old site untouched.
func (b *builder) write(res *Result) error {
	p := b.p
	r, err := render.Load(p.Path(site.LayoutDir), p.Layouts, p.Hooks.Filters, p.LayoutUser)
	if err != nil {
		return err
	}
	conv := markdown.New(p.Dir, p.Report)
	for _, f := range p.Files {
		if err := conv.Convert(f); err != nil {
			return err
		}
	}

	siteData := &render.Site{Meta: p.Site.Plain(), Tags: p.Tags, Reflinks: p.Reflinks}
	var pages []page
	for _, f := range p.Files {
		if !f.Rendered() {
			continue
		}
		html, err := r.Render(f.Layout, render.Data{This: f, Site: siteData})
		if err != nil {
			return err
		}
		pages = append(pages, page{path: PagePath(f, p.Options.FileExt), html: html})
		rec, err := search.NewRecord(html, f.Title, f.URL, f.Tags)
		if err != nil {
			return err
		}
		res.Records = append(res.Records, rec)
	}
	for _, t := range p.Tags {
		html, err := r.Render(site.TagLayout, render.Data{This: t, Site: siteData})
		if err != nil {
			return err
		}
		pages = append(pages, page{path: PagePath(t, p.Options.FileExt), html: html})
	}

	out, err := storage.Create(p.SiteDir())
	if err != nil {
		return err
	}
	return b.promote(out, pages, res)
}

// promote replaces the previous output with the rendered pages.
func (b *builder) promote(out storage.Provider, pages []page, res *Result) error {
	p := b.p
	if err := out.Clean(p.Options.KeepFiles); err != nil {
		return err
	}
	if err := out.CopyTree(p.Root, assetSkip(p)); err != nil {
		return err
	}
	for _, pg := range pages {
		if err := out.Write(pg.path, pg.html); err != nil {
			return err
		}
		res.Pages = append(res.Pages, pg.path)
	}
	if p.Options.SearchIndex {
		data, err := search.Marshal(res.Records)
		if err != nil {
			return err
		}
		if err := out.Write(p.Options.SearchIndexPath, data); err != nil {
			return err
		}
	}
	files, err := out.List("")
	if err != nil {
		return err
	}
	res.Output = files
	return nil
}

func outputPath(components []string, ext string) string {
	return path.Join(components...) + ext
}

// assetSkip leaves out ignored names, Markdown sources and the output
// directory itself when copying static files.
func assetSkip(p *site.Project) storage.SkipFunc {
	m := scanner.NewMatcher(scanner.DefaultIgnore, []string{site.ContentGlob}, p.Options.IgnorePatterns)
	siteRel := ""
	if rel, err := filepath.Rel(p.Root, p.SiteDir()); err == nil && !strings.HasPrefix(rel, "..") {
		siteRel = filepath.ToSlash(rel)
	}
	return func(rel string, d fs.DirEntry) bool {
		return m.Match(d.Name()) || rel == siteRel
	}
}

// PagePath returns the output path of a rendered entity relative to the site
// directory, "" when it has no page of its own.
func PagePath(e models.Entity, ext string) string {
	switch t := e.(type) {
	case *models.ContentEntry:
		if t.Rendered() {
			return outputPath(t.Components, ext)
		}
	case *models.TagEntry:
		return outputPath([]string{site.TagDir, t.Tag}, ext)
	}
	return ""
}
