package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/skein/internal/checksum"
)

// Page is one page as handed to Sync.
type Page struct {
	URL   string
	Title string
	Tags  []string
	Body  string
	// Links are the URLs the page lists as its content.
	Links []string
}

func (p Page) checksum() string {
	return checksum.Fields(p.Title, strings.Join(p.Tags, " "), p.Body, strings.Join(p.Links, " "))
}

// Sync brings the index up to date with a freshly built site:
//   - new/changed pages are upserted
//   - pages no longer built are deleted from the index
func Sync(db PageIndex, pages []Page, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	now := time.Now()
	built := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		built[p.URL] = struct{}{}

		cs := p.checksum()
		if checksums[p.URL] == cs {
			continue
		}
		row := PageRow{URL: p.URL, Title: p.Title, Checksum: cs, Tags: p.Tags, UpdatedAt: now}
		if err := db.UpsertPage(row, p.Body, p.Links); err != nil {
			logger.Warn("sync: index failed", slog.String("url", p.URL), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("url", p.URL))
		}
	}

	// Remove stale entries.
	for u := range checksums {
		if _, ok := built[u]; !ok {
			if err := db.DeletePage(u); err != nil {
				logger.Warn("sync: delete failed", slog.String("url", u), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("url", u))
			}
		}
	}

	return nil
}
