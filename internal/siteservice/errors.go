package siteservice

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrNotBuilt = errors.New("site not built")
)
