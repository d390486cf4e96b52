// Package pagination holds the limit/offset window shared by list endpoints.
package pagination

import (
	"fmt"
	"strconv"
)

type Options struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize applies defaultLimit to an unset limit and caps it at maxLimit.
func (o Options) Normalize(defaultLimit, maxLimit int) (Options, error) {
	if o.Limit < 0 {
		return o, fmt.Errorf("limit must not be negative")
	}
	if o.Offset < 0 {
		return o, fmt.Errorf("offset must not be negative")
	}
	if o.Limit == 0 {
		o.Limit = defaultLimit
	}
	if maxLimit > 0 && o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	return o, nil
}

// Parse reads limit and offset from raw query values. Empty values stay zero.
func Parse(limit, offset string) (Options, error) {
	var (
		o   Options
		err error
	)
	if limit != "" {
		if o.Limit, err = strconv.Atoi(limit); err != nil {
			return o, fmt.Errorf("invalid limit %q", limit)
		}
	}
	if offset != "" {
		if o.Offset, err = strconv.Atoi(offset); err != nil {
			return o, fmt.Errorf("invalid offset %q", offset)
		}
	}
	return o, nil
}
