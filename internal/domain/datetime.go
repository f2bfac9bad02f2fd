package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for every date field in the API:
// query parameters, request bodies, and responses.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a time.Time that serializes as "yyyy-MM-dd HH:mm:ss" JSON
// strings and stores as a plain timestamp.
type DateTime struct {
	time.Time
}

// NewDateTime returns a DateTime truncated to whole seconds, matching the
// precision of the wire format.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.Truncate(time.Second)}
}

// ParseDateTime parses a wire-format timestamp.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date %q, expected %q: %w", s, DateTimeLayout, ErrInvalidInput)
	}
	return DateTime{t}, nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}
