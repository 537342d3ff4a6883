// Package frontmatter reads the YAML metadata block at the top of content files.
package frontmatter

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/skein/internal/models"
)

const delim = "---"

var bom = []byte("\xef\xbb\xbf")

// Document is a parsed content file.
type Document struct {
	Meta models.Metadata
	Body []byte
}

// Split separates the front matter block from the Markdown body. The
// opening delimiter must be the first line of the file. had is false when
// there is no complete block, in which case body is the whole input.
func Split(data []byte) (block []byte, body []byte, had bool) {
	data = bytes.TrimPrefix(data, bom)
	first, rest, found := cutLine(data)
	if !found && len(rest) == 0 && len(first) == 0 {
		return nil, data, false
	}
	if string(bytes.TrimSpace(first)) != delim {
		return nil, data, false
	}
	start := len(data) - len(rest)
	pos := start
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if string(bytes.TrimSpace(line)) == delim {
			return data[start:pos], next, true
		}
		pos += len(rest) - len(next)
		rest = next
	}
	return nil, data, false
}

// cutLine returns the first line of data without its newline.
func cutLine(data []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data, nil, false
	}
	return data[:i], data[i+1:], true
}

// Parse extracts front matter and body. ok is false when the file has no
// front matter block, or the block is not a valid YAML mapping.
func Parse(data []byte) (doc *Document, ok bool) {
	block, body, had := Split(data)
	if !had {
		return nil, false
	}
	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, false
	}
	v, err := models.FromYAML(&node)
	if err != nil {
		return nil, false
	}
	meta, isMap := v.Map()
	if !isMap {
		return nil, false
	}
	return &Document{Meta: meta, Body: body}, true
}

// ReadFile reads and parses the content file at path.
func ReadFile(path string) (*Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("frontmatter: read %s: %w", path, err)
	}
	doc, ok := Parse(data)
	return doc, ok, nil
}

// ParseMapping parses a whole YAML file that must hold a mapping, such as
// the site metadata file. An empty file yields an empty mapping.
func ParseMapping(data []byte) (models.Metadata, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(bytes.TrimPrefix(data, bom), &node); err != nil {
		return nil, err
	}
	v, err := models.FromYAML(&node)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return models.Metadata{}, nil
	}
	meta, ok := v.Map()
	if !ok {
		return nil, fmt.Errorf("top level is a %s, want a mapping", v.Kind())
	}
	return meta, nil
}
