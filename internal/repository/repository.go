// Package repository declares the data-access interfaces the services are
// built against. The jsonfile subpackage implements them over the record
// store; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/ketsia/linklet/internal/model"
)

// UserRepository manages the users collection.
type UserRepository interface {
	// Create assigns an ID and stores the user. It enforces username and
	// email uniqueness (case-sensitive exact match) and returns a conflict
	// error naming the offending field.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the user with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByIdentifier looks a user up by exact username or email match.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)

	// List returns all users.
	List(ctx context.Context) ([]model.User, error)

	// Update replaces the stored record matching user.ID.
	Update(ctx context.Context, user *model.User) error

	// UpdatePair replaces two stored records in a single write. Follow and
	// unfollow use it so that one side of the relationship is never
	// observable without the other.
	UpdatePair(ctx context.Context, first, second *model.User) error
}

// PostRepository manages the posts collection.
type PostRepository interface {
	// Create assigns an ID and creation timestamp and stores the post at
	// the head of the collection (newest-first storage order).
	Create(ctx context.Context, post *model.Post) error

	// GetByID returns the post with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Post, error)

	// List returns all posts sorted descending by timestamp. The sort is
	// stable: posts with equal timestamps keep their storage order.
	List(ctx context.Context) ([]model.Post, error)

	// ListByAuthor returns the author's posts in the same descending order.
	ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error)

	// Update replaces the stored record matching post.ID.
	Update(ctx context.Context, post *model.Post) error
}
