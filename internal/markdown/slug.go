package markdown

import (
	"strconv"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify folds s to a lowercase ASCII-friendly anchor: diacritics are
// dropped, runs of spaces and hyphens become one hyphen, other punctuation
// is removed.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			dash = true
		}
	}
	return b.String()
}

// anchorIDs hands out unique heading ids and remembers every id in use.
type anchorIDs struct {
	seen map[string]struct{}
}

func newAnchorIDs() *anchorIDs {
	return &anchorIDs{seen: make(map[string]struct{})}
}

func (a *anchorIDs) Generate(value []byte, _ gmast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "section"
	}
	id := base
	for i := 1; ; i++ {
		if _, dup := a.seen[id]; !dup {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	a.seen[id] = struct{}{}
	return []byte(id)
}

func (a *anchorIDs) Put(value []byte) {
	a.seen[string(value)] = struct{}{}
}
