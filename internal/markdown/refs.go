package markdown

import (
	"errors"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/starford/skein/internal/models"
	"github.com/starford/skein/internal/reflink"
	"github.com/starford/skein/internal/resolve"
	"github.com/starford/skein/internal/siteerr"
)

// refContext falls back to the site directory for reference labels the page
// does not define itself.
type refContext struct {
	parser.Context
	dir    *reflink.Directory
	page   *models.ContentEntry
	report siteerr.Reporter

	// resolved maps labels answered from the directory to their references.
	resolved map[string]parser.Reference
	warned   map[string]struct{}
	err      error
}

func newRefContext(dir *reflink.Directory, page *models.ContentEntry, rep siteerr.Reporter, ids parser.IDs) *refContext {
	return &refContext{
		Context:  parser.NewContext(parser.WithIDs(ids)),
		dir:      dir,
		page:     page,
		report:   rep,
		resolved: make(map[string]parser.Reference),
		warned:   make(map[string]struct{}),
	}
}

func (c *refContext) Reference(label string) (parser.Reference, bool) {
	if ref, ok := c.Context.Reference(label); ok {
		return ref, true
	}
	if c.err != nil {
		return nil, false
	}
	target, fragment, err := resolve.Inline(c.dir, c.page, label)
	if err != nil {
		if errors.Is(err, siteerr.ErrUndefinedRef) {
			c.warn(label)
		} else {
			c.err = err
		}
		return nil, false
	}

	r := target.Reflink()
	dest := r.URL
	if fragment != "" {
		slug := Slugify(fragment)
		if target == models.Entity(c.page) {
			dest = ""
		}
		dest += "#" + slug
		c.page.AnchorRefs = append(c.page.AnchorRefs, models.AnchorRef{Target: target, Fragment: slug, Label: label})
	}
	ref := parser.NewReference([]byte(label), []byte(dest), []byte(r.Title))
	c.resolved[label] = ref
	return ref, true
}

func (c *refContext) warn(label string) {
	if _, done := c.warned[label]; done {
		return
	}
	c.warned[label] = struct{}{}
	c.report.Warn(siteerr.NewWarning(siteerr.WarnUndefinedRefMD, label, c.page.Path))
}

// refTransformer replaces the text of short references ([label] and
// [label][]) resolved through the directory with the target's title, and
// marks tables with the "table" class.
type refTransformer struct{}

func (refTransformer) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	rc, _ := pc.(*refContext)
	source := reader.Source()
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.Table:
			node.SetAttributeString("class", []byte("table"))
		case *gmast.Link:
			if rc == nil {
				break
			}
			label := util.ToLinkReference([]byte(nodeText(node, source)))
			ref, ok := rc.resolved[label]
			if !ok || len(ref.Title()) == 0 || fullReference(node, source) {
				break
			}
			if string(ref.Destination()) != string(node.Destination) {
				break
			}
			if _, local := rc.Context.Reference(label); local {
				break
			}
			node.RemoveChildren(node)
			node.AppendChild(node, gmast.NewString(ref.Title()))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
}

// fullReference reports whether link was written as [text][label] with a
// non-empty label, judged from the source following its last text segment.
func fullReference(link *gmast.Link, source []byte) bool {
	stop := -1
	_ = gmast.Walk(link, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := c.(*gmast.Text); ok && entering {
			stop = t.Segment.Stop
		}
		return gmast.WalkContinue, nil
	})
	if stop < 0 {
		return false
	}
	i := stop
	for i < len(source) && strings.IndexByte("`*_~", source[i]) >= 0 {
		i++
	}
	if i+2 >= len(source) || source[i] != ']' || source[i+1] != '[' {
		return false
	}
	return source[i+2] != ']'
}

// nodeText concatenates the literal text below n.
func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		case *gmast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if txt, ok := cc.(*gmast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
