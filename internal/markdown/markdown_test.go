package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/siteerr"
)

func entry(path, title string) *models.ContentEntry {
	comps := reflink.Components(path, true)
	urls := reflink.URLs{LinkExt: ".html"}
	return &models.ContentEntry{
		Ref:        models.Ref{ID: reflink.MakeID(comps), URL: urls.Content(comps), Title: title},
		Path:       path,
		Components: comps,
		Layout:     "page",
	}
}

func setup(t *testing.T, entries ...*models.ContentEntry) *reflink.Directory {
	t.Helper()
	d := reflink.NewDirectory()
	for _, e := range entries {
		if err := d.Register(e.ID, e); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func TestConvert_ShortRefUsesTitle(t *testing.T) {
	intro := entry("docs/intro.md", "Introduction")
	page := entry("docs/guide.md", "Guide")
	page.Markdown = []byte("See [intro] and [the start][intro] and [/docs/intro][].\n")
	col := &siteerr.Collector{}
	c := New(setup(t, intro, page), col)

	if err := c.Convert(page); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	body := string(page.Body)
	for _, want := range []string{
		`<a href="/docs/intro.html" title="Introduction">Introduction</a>`,
		`<a href="/docs/intro.html" title="Introduction">the start</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s:\n%s", want, body)
		}
	}
	if strings.Count(body, ">Introduction</a>") != 2 {
		t.Errorf("collapsed ref not retitled:\n%s", body)
	}
	if len(col.Warnings()) != 0 {
		t.Errorf("warnings = %v", col.Warnings())
	}
}

func TestConvert_LocalDefinitionWins(t *testing.T) {
	intro := entry("intro.md", "Introduction")
	page := entry("page.md", "Page")
	page.Markdown = []byte("[intro]\n\n[intro]: https://example.com\n")
	c := New(setup(t, intro, page), &siteerr.Collector{})
	if err := c.Convert(page); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page.Body), `<a href="https://example.com">intro</a>`) {
		t.Errorf("body = %s", page.Body)
	}
}

func TestConvert_UndefinedRefWarnsOnce(t *testing.T) {
	page := entry("page.md", "Page")
	page.Markdown = []byte("A [missing] link and [missing] again.\n")
	col := &siteerr.Collector{}
	c := New(setup(t, page), col)
	if err := c.Convert(page); err != nil {
		t.Fatal(err)
	}
	if n := col.Count(siteerr.WarnUndefinedRefMD); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
	if strings.Contains(string(page.Body), "<a ") || !strings.Contains(string(page.Body), "[missing]") {
		t.Errorf("undefined ref must stay plain text: %s", page.Body)
	}
}

func TestConvert_AmbiguousRef(t *testing.T) {
	root := entry("python.md", "Python")
	nested := entry("docs/python.md", "Python docs")
	page := entry("docs/page.md", "Page")
	d := setup(t, root, nested, page)
	d.Register("python", &models.SiteReflink{Ref: models.Ref{ID: "python", URL: "https://python.org", Title: "Python"}, File: "_site.yml"})
	page.Markdown = []byte("Use [python].\n")

	err := New(d, &siteerr.Collector{}).Convert(page)
	if !errors.Is(err, siteerr.ErrAmbiguousRef) {
		t.Fatalf("err = %v, want ErrAmbiguousRef", err)
	}
}

func TestConvert_RelativeAndRootRefs(t *testing.T) {
	tests := []struct {
		name    string
		targets []*models.ContentEntry
		want    string
		wantErr error
	}{
		{name: "relative only", targets: []*models.ContentEntry{entry("a/foo.md", "A foo")}, want: `href="/a/foo.html"`},
		{name: "root only", targets: []*models.ContentEntry{entry("foo.md", "Root foo")}, want: `href="/foo.html"`},
		{
			name:    "both",
			targets: []*models.ContentEntry{entry("foo.md", "Root foo"), entry("a/foo.md", "A foo")},
			wantErr: siteerr.ErrAmbiguousRef,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := entry("a/page.md", "Page")
			page.Markdown = []byte("See [foo].\n")
			d := setup(t, append(tt.targets, page)...)
			err := New(d, &siteerr.Collector{}).Convert(page)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if !strings.Contains(string(page.Body), tt.want) {
				t.Errorf("body missing %s:\n%s", tt.want, page.Body)
			}
		})
	}
}

func TestConvert_FullRefKeepsText(t *testing.T) {
	intro := entry("intro.md", "Introduction")
	other := entry("other.md", "Other")
	page := entry("page.md", "Page")
	page.Markdown = []byte("[intro] and [intro][other].\n")
	if err := New(setup(t, intro, other, page), &siteerr.Collector{}).Convert(page); err != nil {
		t.Fatal(err)
	}
	body := string(page.Body)
	for _, want := range []string{
		`<a href="/intro.html" title="Introduction">Introduction</a>`,
		`<a href="/other.html" title="Other">intro</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s:\n%s", want, body)
		}
	}
}

func TestConvert_FragmentsAndAnchors(t *testing.T) {
	intro := entry("intro.md", "Intro")
	page := entry("page.md", "Page")
	page.Markdown = []byte("# Über Uns\n\n## Getting Started\n\n## Getting Started\n\nSee [intro#Getting Started] and [#über uns].\n")
	c := New(setup(t, intro, page), &siteerr.Collector{})
	if err := c.Convert(page); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"uber-uns", "getting-started", "getting-started-1"} {
		if _, ok := page.Anchors[id]; !ok {
			t.Errorf("anchor %q missing: %v", id, page.Anchors)
		}
	}
	body := string(page.Body)
	if !strings.Contains(body, `href="/intro.html#getting-started"`) || !strings.Contains(body, `href="#uber-uns"`) {
		t.Errorf("fragment links wrong:\n%s", body)
	}
	if len(page.AnchorRefs) != 2 || page.AnchorRefs[0].Target != models.Entity(intro) || page.AnchorRefs[0].Fragment != "getting-started" {
		t.Errorf("anchor refs = %+v", page.AnchorRefs)
	}
	toc := string(page.TOC)
	if !strings.HasPrefix(toc, `<div class="toc"><ul><li><a href="#uber-uns">Über Uns</a><ul>`) {
		t.Errorf("toc = %s", toc)
	}
}

func TestConvert_NoTOCForSingleHeading(t *testing.T) {
	page := entry("page.md", "Page")
	page.Markdown = []byte("# Only\n\ntext\n")
	if err := New(setup(t, page), &siteerr.Collector{}).Convert(page); err != nil {
		t.Fatal(err)
	}
	if page.TOC != "" {
		t.Errorf("toc = %q", page.TOC)
	}
}

func TestConvert_TableClass(t *testing.T) {
	page := entry("page.md", "Page")
	page.Markdown = []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err := New(setup(t, page), &siteerr.Collector{}).Convert(page); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page.Body), `<table class="table">`) {
		t.Errorf("body = %s", page.Body)
	}
}

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Getting Started":    "getting-started",
		"  Crème brûlée!  ":  "creme-brulee",
		"a -- b":             "a-b",
		"snake_case / paths": "snake_case-paths",
		"???":                "",
	} {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
