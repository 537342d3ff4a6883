package markdown

import (
	"bytes"
	"html/template"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type heading struct {
	level int
	id    string
	text  string
}

func collectHeadings(doc gmast.Node, source []byte) []heading {
	var hs []heading
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !ok || !entering {
			return gmast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		hs = append(hs, heading{level: h.Level, id: id, text: nodeText(h, source)})
		return gmast.WalkSkipChildren, nil
	})
	return hs
}

// renderTOC renders headings as nested lists inside <div class="toc">.
// Pages with fewer than two headings get no table of contents.
func renderTOC(hs []heading) (template.HTML, error) {
	if len(hs) < 2 {
		return "", nil
	}
	type frame struct {
		level int
		list  *html.Node
	}
	root := element(atom.Ul)
	stack := []frame{{level: hs[0].level, list: root}}
	for _, h := range hs {
		for len(stack) > 1 && h.level < stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		if h.level > top.level && top.list.LastChild != nil {
			sub := element(atom.Ul)
			top.list.LastChild.AppendChild(sub)
			top = frame{level: h.level, list: sub}
			stack = append(stack, top)
		}
		a := element(atom.A, html.Attribute{Key: "href", Val: "#" + h.id})
		a.AppendChild(&html.Node{Type: html.TextNode, Data: h.text})
		li := element(atom.Li)
		li.AppendChild(a)
		top.list.AppendChild(li)
	}
	div := element(atom.Div, html.Attribute{Key: "class", Val: "toc"})
	div.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, div); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}
