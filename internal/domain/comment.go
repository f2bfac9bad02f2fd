package domain

import "context"

// Comment is a user's comment on an event.
type Comment struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	AuthorID    int64     `json:"-"`
	AuthorName  string    `json:"authorName"`
	EventID     int64     `json:"eventId"`
	Created     DateTime  `json:"created"`
	LastUpdated *DateTime `json:"lastUpdated,omitempty"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64, page Page) ([]*Comment, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Comment, error)
}

// CommentService defines comment management. Editing is author-only;
// deletion is allowed to the author or the event initiator; admins delete
// without an ownership check.
type CommentService interface {
	Create(ctx context.Context, userID, eventID int64, text string) (*Comment, error)
	Edit(ctx context.Context, userID, commentID int64, text string) (*Comment, error)
	Delete(ctx context.Context, userID, commentID int64) error
	DeleteByAdmin(ctx context.Context, commentID int64) error
	ListByUser(ctx context.Context, userID int64, page Page) ([]*Comment, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Comment, error)
}
