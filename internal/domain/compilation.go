package domain

import "context"

// Compilation is a curated, unordered set of events.
type Compilation struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Pinned bool     `json:"pinned"`
	Events []*Event `json:"events"`

	// EventIDs is the stored membership; Events is filled by the service.
	EventIDs []int64 `json:"-"`
}

// NewCompilation is the create payload.
type NewCompilation struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events"`
}

// CompilationPatch is the partial-update payload. A nil Events slice keeps
// the current membership; a non-nil one replaces it wholesale.
type CompilationPatch struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events"`
}

// CompilationRepository defines storage operations for compilations and
// their event membership join table.
type CompilationRepository interface {
	Create(ctx context.Context, c *Compilation) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	Update(ctx context.Context, c *Compilation, replaceEvents bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pinned *bool, page Page) ([]*Compilation, error)
}

// CompilationService defines compilation management and public lookup.
type CompilationService interface {
	Create(ctx context.Context, in NewCompilation) (*Compilation, error)
	Update(ctx context.Context, id int64, patch CompilationPatch) (*Compilation, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	List(ctx context.Context, pinned *bool, page Page) ([]*Compilation, error)
}
