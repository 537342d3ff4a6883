package reflink

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/siteerr"
)

func TestComponents(t *testing.T) {
	cases := []struct {
		in     string
		hasExt bool
		want   []string
	}{
		{"./docs/guide/intro.md", true, []string{"docs", "guide", "intro"}},
		{"index.md", true, []string{"index"}},
		{".", false, nil},
		{"", false, nil},
		{"docs/guide", false, []string{"docs", "guide"}},
		{"/docs/", false, []string{"docs"}},
		{"v1.2/notes", false, []string{"v1.2", "notes"}},
	}
	for _, c := range cases {
		if got := Components(c.in, c.hasExt); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Components(%q, %v) = %v, want %v", c.in, c.hasExt, got, c.want)
		}
	}
}

func TestMakeID(t *testing.T) {
	if got := MakeID([]string{"Docs", "Intro"}); got != "/docs/intro" {
		t.Errorf("MakeID = %q", got)
	}
	if got := MakeID(nil); got != "/" {
		t.Errorf("MakeID(nil) = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	dir := []string{"a", "b"}
	cases := map[string]string{
		"foo":       "/a/b/foo",
		"../foo":    "/a/foo",
		"./x/../y":  "/a/b/y",
		"/Top/Page": "/top/page",
		"../../../": "/",
	}
	for ref, want := range cases {
		if got := Normalize(dir, ref); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestURLs(t *testing.T) {
	u := URLs{LinkExt: ".html"}
	if got := u.Content([]string{"docs", "Intro"}); got != "/docs/Intro.html" {
		t.Errorf("Content = %q", got)
	}
	if got := u.Dir(nil); got != "/" {
		t.Errorf("Dir(root) = %q", got)
	}
	if got := u.Dir([]string{"docs"}); got != "/docs/" {
		t.Errorf("Dir = %q", got)
	}

	based := URLs{Base: "proj", LinkExt: ""}
	if got := based.Content([]string{"a"}); got != "/proj/a" {
		t.Errorf("based Content = %q", got)
	}
	if got := based.Dir(nil); got != "/proj/" {
		t.Errorf("based Dir(root) = %q", got)
	}
}

func TestDirectory_RegisterAndLookup(t *testing.T) {
	d := NewDirectory()
	e := &models.ContentEntry{Path: "Docs/Intro.md"}
	if err := d.Register("/Docs/Intro", e); err != nil {
		t.Fatal(err)
	}
	got, ok := d.Lookup("/docs/INTRO")
	if !ok || got != e {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if d.Len() != 1 || d.IDs()[0] != "/docs/intro" {
		t.Errorf("IDs = %v", d.IDs())
	}
}

func TestDirectory_DuplicateNamesBothSources(t *testing.T) {
	d := NewDirectory()
	_ = d.Register("/a", &models.ContentEntry{Path: "a.md"})
	err := d.Register("/a", &models.NavEntry{IndexPath: "a/index.md"})
	if !errors.Is(err, siteerr.ErrAmbiguousID) {
		t.Fatalf("err = %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "a.md") || !strings.Contains(msg, "a/index.md") {
		t.Errorf("message should name both sources: %q", msg)
	}
	if got, _ := d.Lookup("/a"); got.Source() != "a.md" {
		t.Error("first registration must not be overwritten")
	}
}
