package resolve

import (
	"errors"
	"testing"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/scanner"
	"github.com/starford/skein/internal/site"
	"github.com/starford/skein/internal/siteerr"
	"github.com/starford/skein/internal/testutil"
)

func scanned(t *testing.T, files map[string]string) *site.Project {
	t.Helper()
	root := testutil.WriteProject(t, files)
	p := site.NewProject(root, site.DefaultOptions(), nil, &siteerr.Collector{}, nil)
	if err := scanner.Scan(p); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return p
}

func nav(t *testing.T, p *site.Project, id string) *models.NavEntry {
	t.Helper()
	e, ok := p.Dir.Lookup(id)
	if !ok {
		t.Fatalf("%s not registered", id)
	}
	n, ok := e.(*models.NavEntry)
	if !ok {
		t.Fatalf("%s is %T", id, e)
	}
	return n
}

func ids(es []models.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Reflink().ID
	}
	return out
}

func assertIDs(t *testing.T, got []models.Entity, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestNavs_ExplicitList(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md":      testutil.Page("layout: page\ntitle: Home\ncontent: [docs, /docs/Intro]", ""),
		"docs/index.md": testutil.Page("layout: page\ntitle: Docs\ncontent: [intro, ../index]", ""),
		"docs/intro.md": testutil.Page("layout: page\ntitle: Intro", ""),
	})
	if err := Navs(p); err != nil {
		t.Fatalf("Navs: %v", err)
	}
	assertIDs(t, nav(t, p, "/").Content, "/docs", "/docs/intro")
	assertIDs(t, nav(t, p, "/docs").Content, "/docs/intro", "/index")

	idx, _ := p.Dir.Lookup("/docs/index")
	assertIDs(t, idx.(*models.ContentEntry).Content, "/docs/intro", "/index")
}

func TestNavs_UndefinedRef(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent: [missing]", ""),
	})
	err := Navs(p)
	var se *siteerr.Error
	if !errors.As(err, &se) || !errors.Is(err, siteerr.ErrUndefinedRef) {
		t.Fatalf("err = %v, want ErrUndefinedRef", err)
	}
	if se.Value != "missing" || se.File != "index.md" {
		t.Errorf("error = %+v", se)
	}
}

func TestNavs_AmbiguousRef(t *testing.T) {
	// In /docs, "/guide" names the root page directly while the
	// directory-relative reading names /docs/guide.
	p := scanned(t, map[string]string{
		"index.md":      testutil.Page("layout: page\ntitle: Home\ncontent: [docs]", ""),
		"guide.md":      testutil.Page("layout: page\ntitle: Root guide", ""),
		"docs/index.md": testutil.Page("layout: page\ntitle: Docs\ncontent: [/guide]", ""),
		"docs/guide.md": testutil.Page("layout: page\ntitle: Docs guide", ""),
	})
	if err := Navs(p); err != nil {
		t.Fatalf("absolute ref must not be ambiguous: %v", err)
	}

	p = scanned(t, map[string]string{
		"index.md":       testutil.Page("layout: page\ntitle: Home\ncontent: [docs]", ""),
		"python.md":      testutil.Page("layout: page\ntitle: Python", ""),
		"docs/index.md":  testutil.Page("layout: page\ntitle: Docs\ncontent: [python]", ""),
		"docs/python.md": testutil.Page("layout: page\ntitle: Python docs", ""),
	})
	p.Dir.Register("python", &models.SiteReflink{Ref: models.Ref{ID: "python", Title: "Python", URL: "https://python.org"}, Name: "python", File: "_site.yml"})
	if err := Navs(p); !errors.Is(err, siteerr.ErrAmbiguousRef) {
		t.Fatalf("err = %v, want ErrAmbiguousRef", err)
	}
}

func TestNavs_RelativeAndRootRefs(t *testing.T) {
	page := func(title string) string { return testutil.Page("layout: page\ntitle: "+title, "") }
	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr error
	}{
		{
			name:  "relative only",
			files: map[string]string{"a/foo.md": page("A foo")},
			want:  "/a/foo",
		},
		{
			name:  "root only",
			files: map[string]string{"foo.md": page("Root foo")},
			want:  "/foo",
		},
		{
			name:    "both",
			files:   map[string]string{"foo.md": page("Root foo"), "a/foo.md": page("A foo")},
			wantErr: siteerr.ErrAmbiguousRef,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{
				"index.md":   testutil.Page("layout: page\ntitle: Home\ncontent: [a]", ""),
				"a/index.md": testutil.Page("layout: page\ntitle: A\ncontent: [foo]", ""),
			}
			for k, v := range tt.files {
				files[k] = v
			}
			p := scanned(t, files)
			err := Navs(p)
			if tt.wantErr != nil {
				var se *siteerr.Error
				if !errors.Is(err, tt.wantErr) || !errors.As(err, &se) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if se.Value != "foo" || se.File != "a/index.md" {
					t.Errorf("error = %+v", se)
				}
				return
			}
			if err != nil {
				t.Fatalf("Navs: %v", err)
			}
			assertIDs(t, nav(t, p, "/a").Content, tt.want)
		})
	}
}

func TestLinkSpec(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md": testutil.Page(`layout: page
title: Home
content:
  - {ref: about, title: About us}
  - {url: "https://example.com", title: Example}
  - {url: "https://example.org"}`, ""),
		"about.md": testutil.Page("layout: page\ntitle: About", ""),
	})
	if err := Navs(p); err != nil {
		t.Fatalf("Navs: %v", err)
	}
	content := nav(t, p, "/").Content
	if len(content) != 3 {
		t.Fatalf("content = %v", ids(content))
	}
	l0 := content[0].(*models.Link)
	if l0.Title != "About us" || l0.URL != "/about.html" || l0.Target == nil {
		t.Errorf("link 0 = %+v", l0)
	}
	l1 := content[1].(*models.Link)
	if l1.Title != "Example" || l1.URL != "https://example.com" || l1.Target != nil {
		t.Errorf("link 1 = %+v", l1)
	}
	if l2 := content[2].(*models.Link); l2.Title != "https://example.org" {
		t.Errorf("link 2 title = %q", l2.Title)
	}
}

func TestLinkSpec_NeedsRefOrURL(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\ncontent:\n  - {title: Lonely}", ""),
	})
	if err := Navs(p); !errors.Is(err, siteerr.ErrBadLinkSpec) {
		t.Fatalf("err = %v, want ErrBadLinkSpec", err)
	}
}

func TestInferred_OrderReverseStable(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md":        testutil.Page("layout: page\ntitle: Home\ncontent: [blog]", ""),
		"blog/index.md":   testutil.Page("layout: page\ntitle: Blog\norder: rank", ""),
		"blog/a.md":       testutil.Page("layout: page\ntitle: A\nrank: 2", ""),
		"blog/b.md":       testutil.Page("layout: page\ntitle: B\nrank: 1", ""),
		"blog/c.md":       testutil.Page("layout: page\ntitle: C\nrank: 2", ""),
		"blog/draft.md":   testutil.Page("layout: none", ""),
		"blog/x/index.md": testutil.Page("layout: page\ntitle: X\nrank: 1.5\ncontent: []", ""),
	})
	if err := Navs(p); err != nil {
		t.Fatalf("Navs: %v", err)
	}
	assertIDs(t, nav(t, p, "/blog").Content, "/blog/b", "/blog/x", "/blog/a", "/blog/c")

	n := nav(t, p, "/blog")
	n.Reverse = true
	got, err := Inferred(p, n)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "/blog/a", "/blog/c", "/blog/x", "/blog/b")
}

func TestInferred_UndefinedKey(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\norder: date", ""),
		"a.md":     testutil.Page("layout: page\ntitle: A\ndate: 2014-01-01", ""),
		"b.md":     testutil.Page("layout: page\ntitle: B", ""),
	})
	err := Navs(p)
	var se *siteerr.Error
	if !errors.As(err, &se) || !errors.Is(err, siteerr.ErrUndefinedKey) {
		t.Fatalf("err = %v, want ErrUndefinedKey", err)
	}
	if se.Value != "date" || se.File != "b.md" {
		t.Errorf("error = %+v", se)
	}
}

func TestInferred_MixedKeyKinds(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md": testutil.Page("layout: page\ntitle: Home\norder: rank", ""),
		"a.md":     testutil.Page("layout: page\ntitle: A\nrank: 1", ""),
		"b.md":     testutil.Page("layout: page\ntitle: B\nrank: first", ""),
	})
	if err := Navs(p); !errors.Is(err, siteerr.ErrSortKeyType) {
		t.Fatalf("err = %v, want ErrSortKeyType", err)
	}
}

func TestInline(t *testing.T) {
	p := scanned(t, map[string]string{
		"index.md":      testutil.Page("layout: page\ntitle: Home\ncontent: []", ""),
		"docs/index.md": testutil.Page("layout: page\ntitle: Docs\ncontent: []", ""),
		"docs/intro.md": testutil.Page("layout: page\ntitle: Intro", ""),
	})
	e, _ := p.Dir.Lookup("/docs/index")
	page := e.(*models.ContentEntry)

	got, frag, err := Inline(p.Dir, page, "Intro#Getting Started")
	if err != nil || got.Reflink().ID != "/docs/intro" || frag != "Getting Started" {
		t.Errorf("Inline = %v, %q, %v", got, frag, err)
	}
	got, frag, err = Inline(p.Dir, page, "#top")
	if err != nil || got != page || frag != "top" {
		t.Errorf("self ref = %v, %q, %v", got, frag, err)
	}
	if _, _, err := Inline(p.Dir, page, "nowhere"); !errors.Is(err, siteerr.ErrUndefinedRef) {
		t.Errorf("err = %v, want ErrUndefinedRef", err)
	}
}
