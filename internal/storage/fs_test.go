package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempSite(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempSite(t)
	content := []byte("<h1>Hello</h1>\n")
	if err := s.Write("index.html", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("index.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	info, err := os.Stat(filepath.Join(s.Root(), "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempSite(t)
	if err := s.Write("a/b/c.html", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestPathTraversal(t *testing.T) {
	s := tempSite(t)
	for _, p := range []string{"../escape.html", "a/../../escape.html", "/etc/passwd"} {
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", p)
		}
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "site")
	s, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Root() != dir {
		t.Errorf("root = %s", s.Root())
	}
}

func TestClean(t *testing.T) {
	s := tempSite(t)
	_ = s.Write("old.html", []byte("x"))
	_ = s.Write("sub/old.html", []byte("x"))
	_ = s.Write("CNAME", []byte("example.com"))
	_ = s.Write(".git/HEAD", []byte("ref"))
	if err := s.Clean([]string{"CNAME", ".git"}); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	files, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if strings.Join(paths, ",") != ".git/HEAD,CNAME" {
		t.Errorf("after clean = %v", paths)
	}
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	for rel, body := range map[string]string{
		"css/site.css":    "body{}",
		"img/logo.png":    "png",
		"page.md":         "# md",
		"_layouts/x.html": "x",
	} {
		p := filepath.Join(src, filepath.FromSlash(rel))
		_ = os.MkdirAll(filepath.Dir(p), 0o755)
		_ = os.WriteFile(p, []byte(body), 0o644)
	}
	s := tempSite(t)
	skip := func(rel string, d fs.DirEntry) bool {
		return strings.HasPrefix(d.Name(), "_") || strings.HasSuffix(rel, ".md")
	}
	if err := s.CopyTree(src, skip); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}
	files, _ := s.List("")
	if len(files) != 2 || files[0].Path != "css/site.css" || files[1].Path != "img/logo.png" {
		t.Errorf("copied = %+v", files)
	}
	if files[0].Checksum == "" {
		t.Error("checksum not computed")
	}
}
