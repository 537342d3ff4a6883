// Package hooks holds user-supplied per-layout validators and template filters.
package hooks

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"plugin"

	"github.com/starford/skein/internal/models"
)

// PluginFile is the optional hook plugin looked up in the project root.
const PluginFile = "_hooks.so"

// Validator inspects and may modify the metadata of a file using its layout.
type Validator func(meta models.Metadata) error

// Registry maps layout names to validators and filter names to functions.
type Registry struct {
	Validators map[string]Validator
	Filters    template.FuncMap
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		Validators: make(map[string]Validator),
		Filters:    make(template.FuncMap),
	}
}

// Validator returns the validator registered for layout, if any.
func (r *Registry) Validator(layout string) (Validator, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.Validators[layout]
	return v, ok
}

// Merge copies every hook of other into r; entries of other win.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for name, v := range other.Validators {
		r.Validators[name] = v
	}
	for name, f := range other.Filters {
		r.Filters[name] = f
	}
}

// LoadPlugin opens a Go plugin exporting Validators and/or Filters. A missing
// file yields (nil, nil).
func LoadPlugin(path string) (*Registry, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hooks: open %s: %w", path, err)
	}
	reg := New()
	if sym, err := p.Lookup("Validators"); err == nil {
		vs, ok := sym.(*map[string]func(models.Metadata) error)
		if !ok {
			return nil, fmt.Errorf("hooks: %s: Validators has type %T", path, sym)
		}
		for name, fn := range *vs {
			reg.Validators[name] = fn
		}
	}
	if sym, err := p.Lookup("Filters"); err == nil {
		fs, ok := sym.(*map[string]any)
		if !ok {
			return nil, fmt.Errorf("hooks: %s: Filters has type %T", path, sym)
		}
		for name, fn := range *fs {
			reg.Filters[name] = fn
		}
	}
	return reg, nil
}
