// Package server implements the preview HTTP server using chi.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/skein/internal/siteservice"
)

// Internal route prefix, kept out of the site's URL space.
const (
	EventsPath     = "/_skein/events"
	LiveReloadPath = "/_skein/livereload.js"
)

// Options configures the router.
type Options struct {
	// SiteDir is the directory served as the site.
	SiteDir string
	// BaseURL is the optional path prefix without slashes.
	BaseURL string
	// FileExt is tried for extensionless request paths.
	FileExt string
	// Events, if non-nil, is mounted at EventsPath.
	Events http.Handler
	// AccessLog enables the chi request logger.
	AccessLog bool
}

// NewRouter creates a chi router serving the built site, the JSON API under
// /api and the health endpoints.
func NewRouter(svc *siteservice.Service, opts Options) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !svc.Status().Built {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "building"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/pages", h.ListPages)
		r.Get("/pages/*", h.GetPage)
		r.Get("/resolve", h.Resolve)
		r.Get("/search", h.Search)
		r.Get("/status", h.Status)
	})

	if opts.Events != nil {
		r.Get(EventsPath, opts.Events.ServeHTTP)
	}
	r.Get(LiveReloadPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(liveReloadJS))
	})

	static := newStaticHandler(opts.SiteDir, opts.FileExt)
	if opts.BaseURL == "" {
		r.Handle("/*", static)
		return r
	}

	prefix := "/" + opts.BaseURL
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/", http.StatusFound)
	})
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/", http.StatusMovedPermanently)
	})
	r.Handle(prefix+"/*", http.StripPrefix(prefix, static))
	return r
}

const liveReloadJS = `(function () {
  if (!window.EventSource) { return; }
  var es = new EventSource("` + EventsPath + `");
  es.addEventListener("reload", function () { window.location.reload(); });
  es.addEventListener("build.failed", function (ev) {
    try { console.error("skein: build failed:", JSON.parse(ev.data).error); } catch (e) {}
  });
})();
`
