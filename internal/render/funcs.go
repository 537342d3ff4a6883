package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"
	"github.com/spf13/cast"

	"github.com/starford/skein/internal/models"
)

// DefaultDateFormat is used by dateformat when no layout is given.
const DefaultDateFormat = "%Y-%m-%d"

// Funcs returns the built-in template functions.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"dateformat": dateFormat,
		"timeago":    timeAgo,
		"join":       join,
		"meta":       meta,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
	}
}

func plain(v any) any {
	switch x := v.(type) {
	case models.Value:
		return x.Interface()
	case *models.Value:
		return x.Interface()
	}
	return v
}

func toTime(v any) (time.Time, error) {
	return cast.ToTimeE(plain(v))
}

// dateFormat formats a date with a strftime layout.
func dateFormat(v any, layout ...string) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	f := DefaultDateFormat
	if len(layout) > 0 {
		f = layout[0]
	}
	return strftime.Format(f, t), nil
}

func timeAgo(v any) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return humanize.Time(t), nil
}

func join(v any, sep string) (string, error) {
	items, err := cast.ToStringSliceE(plain(v))
	if err != nil {
		return "", err
	}
	return strings.Join(items, sep), nil
}

// meta returns the plain value of a metadata key, or nil when absent.
func meta(e models.Entity, key string) any {
	if e == nil {
		return nil
	}
	v, ok := e.Reflink().Meta[key]
	if !ok {
		return nil
	}
	return v.Interface()
}
