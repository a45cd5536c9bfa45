package users

import (
	"context"
)

// UserStore defines the interface for user storage operations. Implementations
// adapt an opaque keyed backend: Put has full-overwrite upsert semantics and
// Delete of an absent id is not an error.
type UserStore interface {
	// GenerateID produces a fresh unique identifier before the record exists.
	GenerateID(ctx context.Context) (string, error)
	// Get returns the record at id, or a not_found UserError.
	Get(ctx context.Context, id string) (*User, error)
	// Put writes the complete record at id, creating or overwriting it.
	Put(ctx context.Context, id string, user *User) error
	// Delete removes the record at id; deleting a missing id succeeds.
	Delete(ctx context.Context, id string) error
}

// UserService defines the interface for user service operations
type UserService interface {
	Create(ctx context.Context, input *UserInput) (*User, error)
	Read(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, input *UserInput) (*User, error)
	Delete(ctx context.Context, id string) (string, error)
}
