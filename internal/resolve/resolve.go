// Package resolve turns the raw content lists of directory entries into
// resolved entities and resolves references found in page bodies.
package resolve

import (
	"fmt"
	"strings"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// Navs resolves the content of every directory entry, in scan order, and
// mirrors it onto the directory's index file.
func Navs(p *site.Project) error {
	for _, n := range p.Navs {
		var err error
		switch {
		case n.Order != "":
			n.Content, err = Inferred(p, n)
		case n.HasContent:
			n.Content, err = List(p.Dir, n)
		}
		if err != nil {
			return err
		}
		if idx, ok := p.Dir.Lookup(reflink.MakeID(append(append([]string{}, n.Components...), models.IndexName))); ok {
			if e, ok := idx.(*models.ContentEntry); ok {
				e.Content = n.Content
			}
		}
	}
	return nil
}

// Lookup finds token in d. The token is tried as a literal id (lowercased),
// as a path relative to the directory base and as a path from the site root.
// Distinct matches are an ambiguity; no match is ErrUndefinedRef. file names
// the referencing source.
func Lookup(d *reflink.Directory, base []string, token, file string) (models.Entity, error) {
	var found models.Entity
	for _, id := range []string{
		strings.ToLower(token),
		reflink.Normalize(base, token),
		reflink.Normalize(nil, token),
	} {
		e, ok := d.Lookup(id)
		if !ok {
			continue
		}
		if found != nil && found != e {
			return nil, siteerr.Conflict(siteerr.ErrAmbiguousRef, token, file,
				fmt.Sprintf("%s and %s", found.Source(), e.Source()))
		}
		found = e
	}
	if found == nil {
		return nil, siteerr.New(siteerr.ErrUndefinedRef, token, file)
	}
	return found, nil
}

// List resolves an explicit content list. Every failure is fatal.
func List(d *reflink.Directory, n *models.NavEntry) ([]models.Entity, error) {
	out := make([]models.Entity, 0, len(n.RawContent))
	for _, item := range n.RawContent {
		var (
			e   models.Entity
			err error
		)
		switch item.Kind() {
		case models.KindString:
			token, _ := item.Str()
			e, err = Lookup(d, n.Components, token, n.IndexPath)
		case models.KindMap:
			spec, _ := item.Map()
			e, err = LinkSpec(d, n, spec)
		default:
			err = siteerr.Wrap(siteerr.ErrWrongType, "content", n.IndexPath,
				&models.TypeError{Key: "content", Want: models.KindString, Got: item.Kind()})
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// LinkSpec builds a Link from a {ref, url, title} mapping. A ref copies the
// target's navigation fields; title overrides whatever title results.
func LinkSpec(d *reflink.Directory, n *models.NavEntry, spec models.Metadata) (*models.Link, error) {
	ref, hasRef, err := spec.GetString("ref")
	if err != nil {
		return nil, siteerr.Wrap(siteerr.ErrWrongType, "ref", n.IndexPath, err)
	}
	url, hasURL, err := spec.GetString("url")
	if err != nil {
		return nil, siteerr.Wrap(siteerr.ErrWrongType, "url", n.IndexPath, err)
	}
	title, hasTitle, err := spec.GetString("title")
	if err != nil {
		return nil, siteerr.Wrap(siteerr.ErrWrongType, "title", n.IndexPath, err)
	}
	if !hasRef && !hasURL {
		return nil, siteerr.New(siteerr.ErrBadLinkSpec, models.Mapping(spec).String(), n.IndexPath)
	}

	link := &models.Link{From: n.IndexPath}
	link.URL, link.Title = url, url
	if hasRef {
		target, err := Lookup(d, n.Components, ref, n.IndexPath)
		if err != nil {
			return nil, err
		}
		r := target.Reflink()
		link.Target = target
		link.ID, link.URL, link.Title, link.Meta = r.ID, r.URL, r.Title, r.Meta
	}
	if hasTitle {
		link.Title = title
	}
	return link, nil
}

// Inline resolves a reference label found in the body of page. A "#fragment"
// suffix is split off and returned raw; an empty path part means page itself.
func Inline(d *reflink.Directory, page *models.ContentEntry, label string) (models.Entity, string, error) {
	target, fragment, _ := strings.Cut(label, "#")
	if target == "" {
		return page, fragment, nil
	}
	base := page.Components
	if len(base) > 0 {
		base = base[:len(base)-1]
	}
	e, err := Lookup(d, base, target, page.Path)
	if err != nil {
		return nil, "", err
	}
	return e, fragment, nil
}
