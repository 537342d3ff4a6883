// Package search builds the client-side search index from rendered pages.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Record is one page of the search index.
type Record struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Tags  string `json:"tags"`
}

// Index is the search-index document.
type Index struct {
	Pages []Record `json:"pages"`
}

// NewRecord extracts the text of a rendered page.
func NewRecord(page []byte, title, url string, tags []string) (Record, error) {
	text, err := Extract(page)
	if err != nil {
		return Record{}, err
	}
	return Record{Text: text, Title: title, URL: url, Tags: strings.Join(tags, " ")}, nil
}

// Extract returns the visible text of an HTML document with whitespace
// collapsed. Only the body is considered when one is present.
func Extract(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("search: parse html: %w", err)
	}
	root := doc
	if body := find(doc, atom.Body); body != nil {
		root = body
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(b.String()), " "), nil
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

// Marshal renders the index document.
func Marshal(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(Index{Pages: records})
	if err != nil {
		return nil, fmt.Errorf("search: marshal index: %w", err)
	}
	return data, nil
}
