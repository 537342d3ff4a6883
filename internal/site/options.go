package site

import (
	"errors"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Well-known project file and directory names.
const (
	ConfigFile   = "_config.yml"
	SiteInfoFile = "_site.yml"
	LayoutDir    = "_layouts"
	DefaultSite  = "_build"
	ContentGlob  = "*.md"
	IndexFile    = "index.md"
	TagDir       = "tag"
	TagLayout    = "tag"
	NullLayout   = "none"
)

// TagRootID is the id of the directory that lists all tags.
const TagRootID = "/" + TagDir

// Options configures a build.
type Options struct {
	SiteDir         string   `yaml:"site_dir" json:"site_dir"`
	BaseURL         string   `yaml:"base_url" json:"base_url"`
	LinkExt         string   `yaml:"link_ext" json:"link_ext"`
	FileExt         string   `yaml:"file_ext" json:"file_ext"`
	IgnorePatterns  []string `yaml:"ignore_patterns" json:"ignore_patterns"`
	KeepFiles       []string `yaml:"keep_files" json:"keep_files"`
	SearchIndex     bool     `yaml:"search_index" json:"search_index"`
	SearchIndexPath string   `yaml:"search_index_path" json:"search_index_path"`
}

// DefaultOptions returns the build defaults.
func DefaultOptions() Options {
	return Options{
		SiteDir:         DefaultSite,
		LinkExt:         ".html",
		FileExt:         ".html",
		SearchIndexPath: "search_index.json",
	}
}

// SitePath returns the absolute output directory of a project rooted at root.
func (o *Options) SitePath(root string) string {
	if filepath.IsAbs(o.SiteDir) {
		return o.SiteDir
	}
	return filepath.Join(root, o.SiteDir)
}

// Validate validates the build options.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.SiteDir, validation.Required),
		validation.Field(&o.FileExt, validation.Required, validation.By(extension)),
		validation.Field(&o.LinkExt, validation.By(extension)),
		validation.Field(&o.BaseURL, validation.By(bareSegment)),
		validation.Field(&o.SearchIndexPath, validation.When(o.SearchIndex, validation.Required)),
	)
}

func extension(value any) error {
	s, _ := value.(string)
	if s != "" && !strings.HasPrefix(s, ".") {
		return errors.New("must start with '.'")
	}
	return nil
}

func bareSegment(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") {
		return errors.New("must not start or end with '/'")
	}
	return nil
}
