package navigation

import (
	"sort"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// Tags builds one TagEntry per tag, registers it and orders the tag list by
// descending size, then name. The list becomes the content of the tag root
// and of its index file when those exist. haveLayout reports whether the tag
// layout is available; without it tags are skipped with a warning.
func Tags(p *site.Project, haveLayout bool) error {
	defer p.DropTagMap()
	names := p.TagNames()
	if len(names) == 0 {
		return nil
	}
	if !haveLayout {
		p.Warn(siteerr.WarnUndefinedTagLayout, site.TagLayout, site.LayoutDir)
		return nil
	}

	tags := make([]*models.TagEntry, 0, len(names))
	for _, name := range names {
		entries := append([]*models.ContentEntry(nil), p.Tagged(name)...)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Date().After(entries[j].Date())
		})
		content := make([]models.Entity, len(entries))
		for i, e := range entries {
			content[i] = e
		}
		comps := []string{site.TagDir, name}
		t := &models.TagEntry{
			Ref: models.Ref{
				ID:    reflink.MakeID(comps),
				URL:   p.URLs.Content(comps),
				Title: name,
				Meta: models.Metadata{
					"layout": models.String(site.TagLayout),
					"title":  models.String(name),
				},
			},
			Tag:     name,
			Content: content,
		}
		if err := p.Register(t); err != nil {
			return err
		}
		tags = append(tags, t)
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if len(tags[i].Content) != len(tags[j].Content) {
			return len(tags[i].Content) > len(tags[j].Content)
		}
		return tags[i].Tag < tags[j].Tag
	})
	p.Tags = tags

	list := make([]models.Entity, len(tags))
	for i, t := range tags {
		list[i] = t
	}
	if e, ok := p.Dir.Lookup(site.TagRootID); ok {
		if n, ok := e.(*models.NavEntry); ok {
			n.Content = list
		}
	}
	if e, ok := p.Dir.Lookup(site.TagRootID + "/" + models.IndexName); ok {
		if f, ok := e.(*models.ContentEntry); ok {
			f.Content = list
		}
	}
	return nil
}
