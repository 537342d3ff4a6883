package resolve

import (
	"slices"
	"sort"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// Inferred selects the direct children of n, files before directories in
// scan order, and sorts them stably by the metadata key named by n.Order.
// Index files and null-layout entries are not children.
func Inferred(p *site.Project, n *models.NavEntry) ([]models.Entity, error) {
	key := n.Order
	var items []models.Entity
	consider := func(e models.Entity, comps []string, null bool) error {
		if len(comps) != len(n.Components)+1 || !slices.Equal(comps[:len(comps)-1], n.Components) {
			return nil
		}
		if comps[len(comps)-1] == models.IndexName || null {
			return nil
		}
		if !e.Reflink().Meta.Has(key) {
			return siteerr.New(siteerr.ErrUndefinedKey, key, e.Source())
		}
		items = append(items, e)
		return nil
	}
	for _, f := range p.Files {
		if err := consider(f, f.Components, !f.Rendered()); err != nil {
			return nil, err
		}
	}
	for _, d := range p.Navs {
		if err := consider(d, d.Components, nullLayout(d.Meta)); err != nil {
			return nil, err
		}
	}

	var cmpErr error
	sort.SliceStable(items, func(i, j int) bool {
		c, err := models.Compare(items[i].Reflink().Meta[key], items[j].Reflink().Meta[key])
		if err != nil {
			if cmpErr == nil {
				cmpErr = siteerr.Conflict(siteerr.ErrSortKeyType, key, items[i].Source(), items[j].Source())
			}
			return false
		}
		if n.Reverse {
			return c > 0
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return items, nil
}

func nullLayout(meta models.Metadata) bool {
	v := meta["layout"]
	if v.IsNull() {
		return true
	}
	s, _ := v.Str()
	return s == site.NullLayout
}
