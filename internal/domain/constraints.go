package domain

import (
	"fmt"
	"strings"
)

// Constraint is one row of an entity's declarative validation table:
// a string field with length bounds and a required flag. All create and
// patch paths funnel through CheckStrings so the rules live in one place.
type Constraint struct {
	Field    string
	Min      int
	Max      int
	Required bool
}

// Validation tables per entity.
var (
	EventConstraints = []Constraint{
		{Field: "annotation", Min: 20, Max: 2000, Required: true},
		{Field: "description", Min: 20, Max: 7000, Required: true},
		{Field: "title", Min: 3, Max: 120, Required: true},
	}
	CategoryConstraints = []Constraint{
		{Field: "name", Min: 1, Max: 50, Required: true},
	}
	UserConstraints = []Constraint{
		{Field: "name", Min: 2, Max: 250, Required: true},
		{Field: "email", Min: 6, Max: 254, Required: true},
	}
	CompilationConstraints = []Constraint{
		{Field: "title", Min: 1, Max: 50, Required: true},
	}
	CommentConstraints = []Constraint{
		{Field: "text", Min: 1, Max: 4000, Required: true},
	}
)

// CheckStrings validates field values against a constraint table. A nil
// value means the field is absent: that is an error only when the
// constraint is required and requireAll is set (create paths pass true,
// patch paths pass false so absent fields are skipped). Present values
// must be non-blank and within the table's length bounds.
func CheckStrings(table []Constraint, values map[string]*string, requireAll bool) error {
	for _, c := range table {
		v, ok := values[c.Field]
		if !ok || v == nil {
			if c.Required && requireAll {
				return fmt.Errorf("field %s is required: %w", c.Field, ErrInvalidInput)
			}
			continue
		}
		if strings.TrimSpace(*v) == "" {
			return fmt.Errorf("field %s must not be blank: %w", c.Field, ErrInvalidInput)
		}
		if n := len([]rune(*v)); n < c.Min || n > c.Max {
			return fmt.Errorf("field %s length must be between %d and %d: %w", c.Field, c.Min, c.Max, ErrInvalidInput)
		}
	}
	return nil
}
