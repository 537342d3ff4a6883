package reflink

import (
	"sort"
	"strings"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/siteerr"
)

// Directory maps lowercased ids to entities. Registration is append-only;
// a second entity for the same id is an ambiguity error.
type Directory struct {
	entries map[string]models.Entity
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]models.Entity)}
}

// Register adds e under id.
func (d *Directory) Register(id string, e models.Entity) error {
	id = strings.ToLower(id)
	if prev, ok := d.entries[id]; ok {
		return siteerr.Conflict(siteerr.ErrAmbiguousID, id, e.Source(), prev.Source())
	}
	d.entries[id] = e
	return nil
}

// Lookup returns the entity registered under id.
func (d *Directory) Lookup(id string) (models.Entity, bool) {
	e, ok := d.entries[strings.ToLower(id)]
	return e, ok
}

// Len returns the number of registered ids.
func (d *Directory) Len() int {
	return len(d.entries)
}

// IDs returns every registered id in sorted order.
func (d *Directory) IDs() []string {
	ids := make([]string, 0, len(d.entries))
	for id := range d.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
