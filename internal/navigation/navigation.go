// Package navigation derives breadcrumbs, prev/next pagers and tag indexes
// from the resolved site graph.
package navigation

import (
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// Breadcrumbs sets, for every file, the directory entries enclosing it from
// the top level down. A trailing index component is not a crumb, and neither
// is the page itself.
func Breadcrumbs(p *site.Project) error {
	for _, f := range p.Files {
		if len(f.Components) == 0 {
			continue
		}
		dirs := f.Components[:len(f.Components)-1]
		crumbs := make([]models.Entity, 0, len(dirs))
		for i := range dirs {
			id := reflink.MakeID(dirs[:i+1])
			e, ok := p.Dir.Lookup(id)
			if !ok {
				return siteerr.New(siteerr.ErrNoIndex, id, f.Path)
			}
			crumbs = append(crumbs, e)
		}
		f.Breadcrumbs = crumbs
	}
	return nil
}

// Pagers chains the members of every non-empty directory content list.
func Pagers(p *site.Project) {
	for _, n := range p.Navs {
		Chain(n.Content)
	}
}

// Chain links consecutive entities through Prev/Next. The first Prev and the
// last Next are nil.
func Chain(content []models.Entity) {
	for i, e := range content {
		r := e.Reflink()
		r.Prev, r.Next = nil, nil
		if i > 0 {
			r.Prev = content[i-1]
		}
		if i < len(content)-1 {
			r.Next = content[i+1]
		}
	}
}
