// Package markdown converts page bodies to HTML, resolving bracketed
// references against the site directory and collecting heading anchors.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/siteerr"
)

// Converter renders Markdown for one build. It is not safe for concurrent use.
type Converter struct {
	md     goldmark.Markdown
	dir    *reflink.Directory
	report siteerr.Reporter
}

// New returns a Converter resolving references through dir. Undefined inline
// references are reported to rep.
func New(dir *reflink.Directory, rep siteerr.Reporter) *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(refTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &Converter{md: md, dir: dir, report: rep}
}

// Convert renders page.Markdown into page.Body and page.TOC and records the
// page's anchors and outgoing fragment references. An ambiguous reference is
// returned as an error; undefined ones are reported and left as text.
func (c *Converter) Convert(page *models.ContentEntry) error {
	ids := newAnchorIDs()
	pc := newRefContext(c.dir, page, c.report, ids)
	page.AnchorRefs = nil

	src := page.Markdown
	doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	if pc.err != nil {
		return pc.err
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
		return fmt.Errorf("markdown: render %s: %w", page.Path, err)
	}
	toc, err := renderTOC(collectHeadings(doc, src))
	if err != nil {
		return fmt.Errorf("markdown: toc %s: %w", page.Path, err)
	}

	page.Body = template.HTML(buf.String())
	page.TOC = toc
	page.Anchors = ids.seen
	return nil
}
