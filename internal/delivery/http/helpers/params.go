package helpers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventboard/internal/domain"
)

// Pagination query parameter defaults: from is an offset, size a page length.
const (
	DefaultFrom = 0
	DefaultSize = 10
)

// ParsePage reads from and size from the query string. Missing values fall
// back to the defaults; malformed or out-of-range values are a validation
// error.
func ParsePage(r *http.Request) (domain.Page, error) {
	from := DefaultFrom
	if s := r.URL.Query().Get("from"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return domain.Page{}, fmt.Errorf("from must be an integer: %w", domain.ErrInvalidInput)
		}
		from = v
	}
	size := DefaultSize
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return domain.Page{}, fmt.Errorf("size must be an integer: %w", domain.ErrInvalidInput)
		}
		size = v
	}
	return domain.NewPage(from, size)
}

// PathID parses the named path segment as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, domain.ErrInvalidInput)
	}
	return id, nil
}

// QueryInt64s parses a repeated or comma-separated int64 query parameter.
func QueryInt64s(q url.Values, name string) ([]int64, error) {
	var out []int64
	for _, raw := range q[name] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must contain integers: %w", name, domain.ErrInvalidInput)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// QueryStrings parses a repeated or comma-separated string query parameter.
func QueryStrings(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// QueryBool parses an optional bool query parameter. Returns nil when the
// parameter is absent.
func QueryBool(q url.Values, name string) (*bool, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean: %w", name, domain.ErrInvalidInput)
	}
	return &v, nil
}

// QueryTime parses an optional wire-format timestamp query parameter.
// Returns nil when the parameter is absent.
func QueryTime(q url.Values, name string) (*time.Time, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDateTime(s)
	if err != nil {
		return nil, err
	}
	return &d.Time, nil
}
