package domain

import "context"

// User is a registered user with a unique email.
// swagger:model User
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Short returns the embedded representation used inside event responses.
func (u *User) Short() UserShort {
	return UserShort{ID: u.ID, Name: u.Name}
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id int64) error
	// List returns users ordered by id; when ids is non-empty only those
	// users are returned.
	List(ctx context.Context, ids []int64, page Page) ([]*User, error)
}

// UserService defines admin-side user management.
type UserService interface {
	Create(ctx context.Context, email, name string) (*User, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, ids []int64, page Page) ([]*User, error)
}
