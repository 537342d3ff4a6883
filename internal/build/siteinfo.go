package build

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/starford/skein/internal/frontmatter"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
)

// loadSiteInfo reads the optional site metadata file. Its reflinks are
// registered first so that file-derived ids colliding with them fail.
func loadSiteInfo(p *site.Project) error {
	data, err := os.ReadFile(p.Path(site.SiteInfoFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("build: read %s: %w", site.SiteInfoFile, err)
	}
	meta, err := frontmatter.ParseMapping(data)
	if err != nil {
		return fmt.Errorf("build: parse %s: %w", site.SiteInfoFile, err)
	}

	refs, ok := meta["reflinks"]
	delete(meta, "reflinks")
	p.Site = meta
	if !ok || refs.IsNull() {
		return nil
	}
	links, isMap := refs.Map()
	if !isMap {
		return siteerr.Wrap(siteerr.ErrWrongType, "reflinks", site.SiteInfoFile,
			&models.TypeError{Key: "reflinks", Want: models.KindMap, Got: refs.Kind()})
	}
	for _, name := range links.Keys() {
		info, isMap := links[name].Map()
		if !isMap {
			return siteerr.Wrap(siteerr.ErrWrongType, name, site.SiteInfoFile,
				&models.TypeError{Key: name, Want: models.KindMap, Got: links[name].Kind()})
		}
		r, err := siteReflink(name, info)
		if err != nil {
			return err
		}
		if err := p.Register(r); err != nil {
			return err
		}
		p.Reflinks = append(p.Reflinks, r)
	}
	return nil
}

func siteReflink(name string, info models.Metadata) (*models.SiteReflink, error) {
	fields := make(map[string]string, 2)
	for _, key := range []string{"title", "url"} {
		v, ok, err := info.GetString(key)
		if err != nil {
			return nil, siteerr.Wrap(siteerr.ErrWrongType, name, site.SiteInfoFile, err)
		}
		if !ok {
			return nil, siteerr.Wrap(siteerr.ErrUndefinedReflinkKey, name, site.SiteInfoFile,
				fmt.Errorf("missing '%s'", key))
		}
		fields[key] = v
	}
	return &models.SiteReflink{
		Ref: models.Ref{
			ID:    strings.ToLower(name),
			URL:   fields["url"],
			Title: fields["title"],
			Meta:  info,
		},
		Name: name,
		File: site.SiteInfoFile,
	}, nil
}
