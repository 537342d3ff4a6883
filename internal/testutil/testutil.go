// Package testutil provides shared test helpers for setting up projects and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/skein/internal/index"
)

// WriteProject writes files (slash-separated relative path to contents) into
// a fresh temporary directory and returns its path.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// Page returns a Markdown source with a YAML front matter block.
func Page(frontMatter, body string) string {
	return "---\n" + frontMatter + "\n---\n" + body
}

// SampleProject returns a small buildable project: a home page listing a
// docs directory and a site reflink, two tagged docs pages and a nested guide.
func SampleProject() map[string]string {
	const layout = `<html><head><title>{{.This.Title}}</title></head><body><main>{{.This.Body}}</main>` +
		`<ul>{{range .This.Content}}<li><a href="{{.URL}}">{{.Title}}</a></li>{{end}}</ul></body></html>`
	return map[string]string{
		"_layouts/page.html":  layout,
		"_layouts/tag.html":   `<h1>{{.This.Title}}</h1>{{range .This.Content}}<p>{{.Title}}</p>{{end}}`,
		"_site.yml":           "name: Sample\nreflinks:\n  golang: {title: Go, url: \"https://go.dev\"}\n",
		"index.md":            Page("layout: page\ntitle: Home\ncontent: [docs, golang]", "Welcome."),
		"docs/index.md":       Page("layout: page\ntitle: Docs\ncontent: [intro, guide]", "Docs."),
		"docs/intro.md":       Page("layout: page\ntitle: Intro\ntags: [go]\ndate: 2014-02-01", "Introduction to the zanzibar toolkit."),
		"docs/guide/index.md": Page("layout: page\ntitle: Guide\ncontent: [usage]", "## Usage\n\ntext"),
		"docs/guide/usage.md": Page("layout: page\ntitle: Usage\ntags: [go, cli]", "Use it."),
		"css/site.css":        "body{}",
	}
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "skein-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
