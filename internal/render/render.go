// Package render executes page layouts from the project's layout directory.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/siteerr"
)

// PartialGlob matches layout files shared by every layout.
const PartialGlob = "_*.html"

// Ext is the file extension of layout files.
const Ext = ".html"

// Site is the site-wide data passed to every layout.
type Site struct {
	Meta     map[string]any
	Tags     []*models.TagEntry
	Reflinks []*models.SiteReflink
}

// Data is the value a layout is executed with.
type Data struct {
	This models.Entity
	Site *Site
}

// Renderer holds one parsed template set per layout.
type Renderer struct {
	templates map[string]*template.Template
}

// HasLayout reports whether dir holds a layout named name.
func HasLayout(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name+Ext))
	return err == nil && !info.IsDir()
}

// Load parses the named layouts from dir with the built-in functions plus
// filters. user returns the file that first used a layout, for errors.
func Load(dir string, layouts []string, filters template.FuncMap, user func(string) string) (*Renderer, error) {
	funcs := Funcs()
	for name, fn := range filters {
		funcs[name] = fn
	}
	partials, err := filepath.Glob(filepath.Join(dir, PartialGlob))
	if err != nil {
		return nil, fmt.Errorf("render: partials: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(layouts))}
	for _, name := range layouts {
		file := filepath.Join(dir, name+Ext)
		src, err := os.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) {
			return nil, siteerr.New(siteerr.ErrUndefinedLayout, name, user(name))
		}
		if err != nil {
			return nil, fmt.Errorf("render: read layout %s: %w", name, err)
		}
		t := template.New(name).Funcs(funcs)
		if len(partials) > 0 {
			if t, err = t.ParseFiles(partials...); err != nil {
				return nil, fmt.Errorf("render: parse partials: %w", err)
			}
		}
		if _, err := t.New(name + Ext).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("render: parse layout %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes layout with data.
func (r *Renderer) Render(layout string, data Data) ([]byte, error) {
	t, ok := r.templates[layout]
	if !ok {
		return nil, siteerr.New(siteerr.ErrUndefinedLayout, layout, data.This.Source())
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout+Ext, data); err != nil {
		return nil, fmt.Errorf("render: %s with layout %s: %w", data.This.Source(), layout, err)
	}
	return buf.Bytes(), nil
}
