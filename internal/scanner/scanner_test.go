package scanner

import (
	"errors"
	"testing"

	"github.com/starford/skein/internal/hooks"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
	"github.com/starford/skein/internal/testutil"
)

func newProject(t *testing.T, files map[string]string) (*site.Project, *siteerr.Collector) {
	t.Helper()
	root := testutil.WriteProject(t, files)
	col := &siteerr.Collector{}
	return site.NewProject(root, site.DefaultOptions(), nil, col, nil), col
}

func TestScan_FilesAndNavs(t *testing.T) {
	p, col := newProject(t, map[string]string{
		"index.md":           testutil.Page("layout: page\ntitle: Home\ncontent: [about]", "hi"),
		"about.md":           testutil.Page("layout: page\ntitle: About", "about"),
		"docs/index.md":      testutil.Page("layout: page\ntitle: Docs\norder: title", ""),
		"docs/Guide.md":      testutil.Page("layout: page\ntitle: Guide\ntags: go", ""),
		"docs/raw.md":        "no front matter",
		"_layouts/page.html": "{{.This.Title}}",
		".hidden/x.md":       testutil.Page("layout: page\ntitle: X", ""),
	})
	if err := Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var paths []string
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	want := []string{"about.md", "index.md", "docs/Guide.md", "docs/index.md"}
	if len(paths) != len(want) {
		t.Fatalf("files = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("files = %v, want %v", paths, want)
		}
	}

	if len(p.Navs) != 2 || p.Navs[0].ID != "/" || p.Navs[1].ID != "/docs" {
		t.Fatalf("navs = %+v", p.Navs)
	}
	if p.Navs[1].URL != "/docs/" || p.Navs[1].Order != "title" {
		t.Errorf("docs nav = %+v", p.Navs[1])
	}

	e, ok := p.Dir.Lookup("/docs/guide")
	if !ok {
		t.Fatal("/docs/guide not registered")
	}
	if e.Reflink().URL != "/docs/Guide.html" {
		t.Errorf("URL = %q", e.Reflink().URL)
	}
	if got := p.Tagged("go"); len(got) != 1 || got[0].Path != "docs/Guide.md" {
		t.Errorf("tag go = %v", got)
	}
	if col.Count(siteerr.WarnNoFrontMatter) != 1 {
		t.Errorf("warnings = %v", col.Warnings())
	}
}

func TestScan_MissingLayout(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("title: Home\ncontent: []", ""),
	})
	err := Scan(p)
	if !errors.Is(err, siteerr.ErrUndefinedAttr) {
		t.Fatalf("err = %v, want ErrUndefinedAttr", err)
	}
}

func TestScan_MissingTitle(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ncontent: []", ""),
	})
	err := Scan(p)
	var se *siteerr.Error
	if !errors.As(err, &se) || se.Value != "title" || se.File != "index.md" {
		t.Fatalf("err = %v", err)
	}
}

func TestScan_ScalarTitles(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"year.md":  testutil.Page("layout: page\ntitle: 2024", ""),
		"v1.md":    testutil.Page("layout: page\ntitle: 1.0", ""),
	})
	if err := Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for id, want := range map[string]string{"/year": "2024", "/v1": "1.0"} {
		e, ok := p.Dir.Lookup(id)
		if !ok {
			t.Fatalf("%s not registered", id)
		}
		if got := e.(*models.ContentEntry).Title; got != want {
			t.Errorf("%s title = %q, want %q", id, got, want)
		}
	}

	p, _ = newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: [a, b]\ncontent: []", ""),
	})
	if err := Scan(p); !errors.Is(err, siteerr.ErrWrongType) {
		t.Fatalf("err = %v, want ErrWrongType", err)
	}
}

func TestScan_NullLayoutNeedsNoTitle(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"draft.md": testutil.Page("layout: none\ntags: [x]", ""),
		"nil.md":   testutil.Page("layout:", ""),
	})
	if err := Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, f := range p.Files {
		if f.Path != "index.md" && f.Rendered() {
			t.Errorf("%s should have the null layout", f.Path)
		}
	}
	if len(p.TagNames()) != 0 {
		t.Errorf("null-layout files must not be tagged: %v", p.TagNames())
	}
}

func TestScan_DateFormat(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []\ndate: 2014-13-01", ""),
	})
	if err := Scan(p); !errors.Is(err, siteerr.ErrDateFormat) {
		t.Fatalf("err = %v, want ErrDateFormat", err)
	}
}

func TestScan_UndefinedContent(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home", ""),
	})
	if err := Scan(p); !errors.Is(err, siteerr.ErrUndefinedContent) {
		t.Fatalf("err = %v, want ErrUndefinedContent", err)
	}
}

func TestScan_ContentMustBeList(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: about", ""),
	})
	if err := Scan(p); !errors.Is(err, siteerr.ErrWrongType) {
		t.Fatalf("err = %v, want ErrWrongType", err)
	}
}

func TestScan_NoIndex(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md":      testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"blog/first.md": testutil.Page("layout: page\ntitle: First", ""),
	})
	err := Scan(p)
	var se *siteerr.Error
	if !errors.As(err, &se) || !errors.Is(err, siteerr.ErrNoIndex) || se.File != "blog" {
		t.Fatalf("err = %v, want ErrNoIndex in blog", err)
	}
}

func TestScan_AmbiguousID(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"a.md":     testutil.Page("layout: page\ntitle: A", ""),
		"A.md":     testutil.Page("layout: page\ntitle: A", ""),
	})
	if err := Scan(p); !errors.Is(err, siteerr.ErrAmbiguousID) {
		t.Fatalf("err = %v, want ErrAmbiguousID", err)
	}
}

func TestScan_IgnorePatterns(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md":      testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"drafts/wip.md": testutil.Page("title: broken", ""),
		"notes-skip.md": testutil.Page("title: broken", ""),
		"_build/old.md": testutil.Page("title: broken", ""),
	})
	p.Options.IgnorePatterns = []string{"drafts", "*-skip.md"}
	if err := Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(p.Files) != 1 {
		t.Errorf("files = %d, want 1", len(p.Files))
	}
}

func TestScan_ValidatorRewritesMetadata(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"post.md":  testutil.Page("layout: post", ""),
	})
	reg := hooks.New()
	reg.Validators["post"] = func(meta models.Metadata) error {
		meta["title"] = models.String("Generated")
		meta["layout"] = models.String("page")
		return nil
	}
	p.Hooks = reg
	if err := Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	e, _ := p.Dir.Lookup("/post")
	post := e.(*models.ContentEntry)
	if post.Title != "Generated" || post.Layout != "page" {
		t.Errorf("post = %q / %q", post.Title, post.Layout)
	}
	if len(p.Layouts) != 1 || p.Layouts[0] != "page" {
		t.Errorf("layouts = %v", p.Layouts)
	}
}

func TestScan_ValidatorError(t *testing.T) {
	p, _ := newProject(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
	})
	reg := hooks.New()
	reg.Validators["page"] = func(models.Metadata) error { return errors.New("nope") }
	p.Hooks = reg
	if err := Scan(p); !errors.Is(err, siteerr.ErrValidator) {
		t.Fatalf("err = %v, want ErrValidator", err)
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher(DefaultIgnore, []string{"Makefile", "[bad"})
	for name, want := range map[string]bool{
		".git":     true,
		"_layouts": true,
		"Makefile": true,
		"docs":     false,
		"[bad":     false,
	} {
		if got := m.Match(name); got != want {
			t.Errorf("Match(%q) = %v, want %v", name, got, want)
		}
	}
}
