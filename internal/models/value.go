package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
	KindList
	KindMap
)

var kindNames = [...]string{"null", "string", "int", "float", "bool", "date", "list", "mapping"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a front-matter value: one of string, number, bool, date, list or
// nested mapping.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	list []Value
	m    Metadata
}

// Null is the zero Value.
var Null = Value{}

func String(s string) Value     { return Value{kind: KindString, s: s} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Date(t time.Time) Value    { return Value{kind: KindDate, t: t} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }
func Mapping(m Metadata) Value  { return Value{kind: KindMap, m: m} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds YAML null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Time returns the date payload and whether v is a date.
// Scalar returns the text of a string, number, bool or date value, as written
// in the source when the value was decoded from YAML.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case KindNull, KindList, KindMap:
		return "", false
	case KindString:
		return v.s, true
	}
	if v.s != "" {
		return v.s, true
	}
	return v.String(), true
}

func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// Boolean returns the bool payload and whether v is a bool.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Items returns the list payload and whether v is a list.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Map returns the mapping payload and whether v is a mapping.
func (v Value) Map() (Metadata, bool) { return v.m, v.kind == KindMap }

// Number returns v as float64 for int and float values.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Interface converts v to plain Go values (for JSON and templates).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		return v.m.Plain()
	}
	return nil
}

// String renders v for templates.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format(time.RFC3339)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	case KindMap:
		return fmt.Sprint(v.m.Plain())
	}
	return ""
}

// ErrIncomparable is returned by Compare for values of different kinds.
var ErrIncomparable = errors.New("values are not comparable")

// Compare orders two scalar values of the same kind. Ints and floats compare
// numerically with each other; any other kind mix is ErrIncomparable.
func Compare(a, b Value) (int, error) {
	if an, ok := a.Number(); ok {
		bn, ok := b.Number()
		if !ok {
			return 0, ErrIncomparable
		}
		switch {
		case an < bn:
			return -1, nil
		case an > bn:
			return 1, nil
		}
		return 0, nil
	}
	if a.kind != b.kind {
		return 0, ErrIncomparable
	}
	switch a.kind {
	case KindString:
		return strings.Compare(a.s, b.s), nil
	case KindDate:
		return a.t.Compare(b.t), nil
	case KindBool:
		switch {
		case a.b == b.b:
			return 0, nil
		case !a.b:
			return -1, nil
		}
		return 1, nil
	}
	return 0, ErrIncomparable
}

// FromYAML converts a decoded YAML node into a Value, keeping YAML's own
// resolution of scalar types (notably !!timestamp for dates).
func FromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case 0:
		return Null, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null, nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAML(c)
			if err != nil {
				return Null, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case yaml.MappingNode:
		m := make(Metadata, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return Null, fmt.Errorf("line %d: mapping key: %w", n.Content[i].Line, err)
			}
			v, err := FromYAML(n.Content[i+1])
			if err != nil {
				return Null, err
			}
			m[key] = v
		}
		return Mapping(m), nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return Null, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// scalar decodes a scalar node. Non-string values keep their source text.
func scalar(n *yaml.Node) (Value, error) {
	v, err := typedScalar(n)
	if err != nil || v.kind == KindNull || v.kind == KindString {
		return v, err
	}
	v.s = n.Value
	return v, nil
}

func typedScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Null, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Null, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Null, err
		}
		return Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return Null, err
		}
		return Date(t), nil
	}
	return String(n.Value), nil
}

// Metadata is the open front-matter mapping.
type Metadata map[string]Value

// Has reports whether key is present (null values count as present).
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the keys of m in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Plain converts m to map[string]any.
func (m Metadata) Plain() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// TypeError reports a value of the wrong kind for a key.
type TypeError struct {
	Key  string
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("'%s' value should be a %s, got %s", e.Key, e.Want, e.Got)
}

// GetString returns the string under key. ok is false when the key is absent.
func (m Metadata) GetString(key string) (s string, ok bool, err error) {
	v, ok := m[key]
	if !ok {
		return "", false, nil
	}
	s, isStr := v.Str()
	if !isStr {
		return "", true, &TypeError{Key: key, Want: KindString, Got: v.kind}
	}
	return s, true, nil
}

// GetScalar returns the value under key as text. Numbers, bools and dates are
// accepted and read as written. ok is false when the key is absent.
func (m Metadata) GetScalar(key string) (s string, ok bool, err error) {
	v, ok := m[key]
	if !ok {
		return "", false, nil
	}
	s, isScalar := v.Scalar()
	if !isScalar {
		return "", true, &TypeError{Key: key, Want: KindString, Got: v.kind}
	}
	return s, true, nil
}

// GetBool returns the bool under key. ok is false when the key is absent.
func (m Metadata) GetBool(key string) (b bool, ok bool, err error) {
	v, ok := m[key]
	if !ok {
		return false, false, nil
	}
	b, isBool := v.Boolean()
	if !isBool {
		return false, true, &TypeError{Key: key, Want: KindBool, Got: v.kind}
	}
	return b, true, nil
}

// GetDate returns the date under key. ok is false when the key is absent.
func (m Metadata) GetDate(key string) (t time.Time, ok bool, err error) {
	v, ok := m[key]
	if !ok {
		return time.Time{}, false, nil
	}
	t, isDate := v.Time()
	if !isDate {
		return time.Time{}, true, &TypeError{Key: key, Want: KindDate, Got: v.kind}
	}
	return t, true, nil
}

// GetList returns the list under key. ok is false when the key is absent.
func (m Metadata) GetList(key string) (items []Value, ok bool, err error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	items, isList := v.Items()
	if !isList {
		return nil, true, &TypeError{Key: key, Want: KindList, Got: v.kind}
	}
	return items, true, nil
}

// GetStrings returns a list of strings under key. A single string is
// accepted as a one-element list.
func (m Metadata) GetStrings(key string) ([]string, error) {
	v, ok := m[key]
	if !ok || v.IsNull() {
		return nil, nil
	}
	if s, isStr := v.Str(); isStr {
		return []string{s}, nil
	}
	items, isList := v.Items()
	if !isList {
		return nil, &TypeError{Key: key, Want: KindList, Got: v.kind}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, isStr := item.Str()
		if !isStr {
			return nil, &TypeError{Key: key, Want: KindString, Got: item.kind}
		}
		out = append(out, s)
	}
	return out, nil
}
