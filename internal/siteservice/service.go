// Package siteservice keeps the latest build of a project and answers
// queries about its site graph for the preview server and MCP tools.
package siteservice

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/starford/skein/internal/build"
	"github.com/starford/skein/internal/index"
	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/resolve"
	"github.com/starford/skein/internal/siteerr"
	"github.com/starford/skein/internal/sse"
)

// Publisher receives the outcome of every rebuild.
type Publisher interface {
	PublishBuild(sse.BuildSummary)
}

// Entity kinds reported in page details.
const (
	KindPage      = "page"
	KindDirectory = "directory"
	KindTag       = "tag"
	KindReflink   = "reflink"
	KindLink      = "link"
)

// PageDetail is the full representation of one entity of the site graph.
type PageDetail struct {
	ID          string         `json:"id"`
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Kind        string         `json:"kind"`
	Source      string         `json:"source"`
	Tags        []string       `json:"tags"`
	Date        *time.Time     `json:"date,omitempty"`
	Breadcrumbs []string       `json:"breadcrumbs"`
	Content     []string       `json:"content"`
	Prev        string         `json:"prev,omitempty"`
	Next        string         `json:"next,omitempty"`
	ListedIn    []string       `json:"listed_in"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// PageListItem is a lightweight item in a list response.
type PageListItem struct {
	ID    string   `json:"id"`
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Status describes the latest build.
type Status struct {
	Built    bool      `json:"built"`
	State    string    `json:"state"`
	Pages    int       `json:"pages"`
	Warnings int       `json:"warnings"`
	Error    string    `json:"error,omitempty"`
	BuiltAt  time.Time `json:"built_at"`
}

// Service coordinates builds, the search index and site graph lookups.
type Service struct {
	cfg    build.Config
	db     index.PageIndex
	pub    Publisher
	logger *slog.Logger

	// building serializes rebuilds; mu guards the fields below.
	building sync.Mutex
	mu       sync.RWMutex
	res      *build.Result
	lastErr  error
	builtAt  time.Time
}

// NewService creates a new site service. pub may be nil.
func NewService(cfg build.Config, db index.PageIndex, pub Publisher) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, db: db, pub: pub, logger: logger}
}

// Rebuild runs a full build. On success the new site graph replaces the
// previous one and the search index is synced; on failure the previous
// graph stays in place. The outcome is published either way.
func (s *Service) Rebuild(ctx context.Context) error {
	s.building.Lock()
	defer s.building.Unlock()

	res, err := build.Run(ctx, s.cfg)
	sum := sse.BuildSummary{}
	if res != nil {
		sum.State = res.State.String()
		sum.Pages = len(res.Pages)
		sum.Warnings = res.Warnings
		sum.ElapsedMS = res.Elapsed.Milliseconds()
	}

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.res = res
		s.builtAt = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("rebuild failed", slog.String("state", sum.State), slog.String("error", err.Error()))
		sum.Error = err.Error()
		s.publish(sum)
		return err
	}

	if s.db != nil {
		if syncErr := index.Sync(s.db, indexPages(res), s.logger); syncErr != nil {
			s.logger.Warn("search index sync failed", slog.String("error", syncErr.Error()))
		}
	}
	s.publish(sum)
	return nil
}

func (s *Service) publish(sum sse.BuildSummary) {
	if s.pub != nil {
		s.pub.PublishBuild(sum)
	}
}

// Status reports the outcome of the latest build.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Built: s.res != nil, BuiltAt: s.builtAt}
	if s.res != nil {
		st.State = s.res.State.String()
		st.Pages = len(s.res.Pages)
		st.Warnings = s.res.Warnings
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

// Result returns the latest successful build, nil before the first one.
func (s *Service) Result() *build.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

func (s *Service) current() (*build.Result, error) {
	res := s.Result()
	if res == nil {
		return nil, ErrNotBuilt
	}
	return res, nil
}

// ListPages returns every rendered page, optionally restricted to one tag,
// ordered by URL.
func (s *Service) ListPages(_ context.Context, tag string) ([]PageListItem, error) {
	res, err := s.current()
	if err != nil {
		return nil, err
	}
	items := []PageListItem{}
	for _, f := range res.Files {
		if !f.Rendered() || (tag != "" && !hasTag(f.Tags, tag)) {
			continue
		}
		items = append(items, PageListItem{
			ID:    f.ID,
			URL:   f.URL,
			Title: f.Title,
			Tags:  nonNilSlice(f.Tags),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].URL < items[j].URL })
	return items, nil
}

// GetPage looks an entity up by id or by URL.
func (s *Service) GetPage(_ context.Context, key string) (*PageDetail, error) {
	res, err := s.current()
	if err != nil {
		return nil, err
	}
	e, ok := find(res, key)
	if !ok {
		return nil, ErrNotFound
	}
	d := detail(e)
	if s.db != nil && d.URL != "" {
		listed, err := s.db.ListedIn(d.URL)
		if err != nil {
			return nil, err
		}
		d.ListedIn = nonNilSlice(listed)
	}
	return d, nil
}

// Resolve resolves a reference token the way a content list in directory
// from would. from is a site path such as "/docs" ("" or "/" for the root).
func (s *Service) Resolve(_ context.Context, token, from string) (*PageDetail, error) {
	res, err := s.current()
	if err != nil {
		return nil, err
	}
	base := reflink.Components(from, false)
	e, err := resolve.Lookup(res.Dir, base, token, from)
	if err != nil {
		return nil, err
	}
	return detail(e), nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, ErrNotBuilt
	}
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(results), nil
}

// ErrorKind names the siteerr kind err carries, "" for other errors.
func ErrorKind(err error) string {
	var se *siteerr.Error
	if errors.As(err, &se) && se.Kind != nil {
		return se.Kind.Error()
	}
	return ""
}

func find(res *build.Result, key string) (models.Entity, bool) {
	if e, ok := res.Dir.Lookup(key); ok {
		return e, true
	}
	trimmed := strings.TrimSuffix(key, "/")
	for _, id := range res.Dir.IDs() {
		e, _ := res.Dir.Lookup(id)
		u := e.Reflink().URL
		if u != "" && (u == key || strings.TrimSuffix(u, "/") == trimmed) {
			return e, true
		}
	}
	return nil, false
}

func detail(e models.Entity) *PageDetail {
	r := e.Reflink()
	d := &PageDetail{
		ID:          r.ID,
		URL:         r.URL,
		Title:       r.Title,
		Source:      e.Source(),
		Tags:        []string{},
		Breadcrumbs: []string{},
		Content:     []string{},
		ListedIn:    []string{},
		Meta:        r.Meta.Plain(),
		Prev:        refID(r.Prev),
		Next:        refID(r.Next),
	}
	switch t := e.(type) {
	case *models.ContentEntry:
		d.Kind = KindPage
		d.Tags = nonNilSlice(t.Tags)
		date := t.Date()
		d.Date = &date
		d.Breadcrumbs = ids(t.Breadcrumbs)
		d.Content = ids(t.Content)
	case *models.NavEntry:
		d.Kind = KindDirectory
		d.Content = ids(t.Content)
	case *models.TagEntry:
		d.Kind = KindTag
		d.Content = ids(t.Content)
	case *models.SiteReflink:
		d.Kind = KindReflink
	case *models.Link:
		d.Kind = KindLink
	}
	return d
}

func refID(e models.Entity) string {
	if e == nil {
		return ""
	}
	if r := e.Reflink(); r.ID != "" {
		return r.ID
	}
	return e.Reflink().URL
}

func ids(es []models.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, refID(e))
	}
	return out
}

// indexPages pairs every search record with the URLs its page lists.
func indexPages(res *build.Result) []index.Page {
	links := make(map[string][]string)
	for _, f := range res.Files {
		if !f.Rendered() || len(f.Content) == 0 {
			continue
		}
		for _, c := range f.Content {
			if u := c.Reflink().URL; u != "" {
				links[f.URL] = append(links[f.URL], u)
			}
		}
	}
	pages := make([]index.Page, 0, len(res.Records))
	for _, rec := range res.Records {
		pages = append(pages, index.Page{
			URL:   rec.URL,
			Title: rec.Title,
			Tags:  strings.Fields(rec.Tags),
			Body:  rec.Text,
			Links: links[rec.URL],
		})
	}
	return pages
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
