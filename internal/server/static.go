package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticHandler serves the site directory. A request path without an
// extension that names no file falls back to <path><fileExt>.
type staticHandler struct {
	dir     string
	fileExt string
	files   http.Handler
}

func newStaticHandler(dir, fileExt string) *staticHandler {
	return &staticHandler{dir: dir, fileExt: fileExt, files: http.FileServer(http.Dir(dir))}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)
	if !strings.HasSuffix(r.URL.Path, "/") && path.Ext(p) == "" && h.fileExt != "" {
		if !h.exists(p) && h.exists(p+h.fileExt) {
			r2 := r.Clone(r.Context())
			r2.URL.Path = p + h.fileExt
			h.files.ServeHTTP(w, r2)
			return
		}
	}
	h.files.ServeHTTP(w, r)
}

func (h *staticHandler) exists(p string) bool {
	_, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(p)))
	return err == nil
}
