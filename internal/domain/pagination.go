package domain

import "fmt"

// Page holds offset-based pagination parameters for list queries.
// From is the number of rows to skip; Size is the page length.
type Page struct {
	From int
	Size int
}

// NewPage validates from/size. from < 0 or size <= 0 is a validation error.
func NewPage(from, size int) (Page, error) {
	if from < 0 || size <= 0 {
		return Page{}, fmt.Errorf("invalid pagination parameters from=%d size=%d: %w", from, size, ErrInvalidInput)
	}
	return Page{From: from, Size: size}, nil
}
