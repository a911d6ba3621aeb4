// Package jsonfile implements the repository interfaces over the JSON
// document store.
//
// Each repository owns one collection. The collection is loaded into memory
// on first use and every mutation rewrites the whole backing document. A
// mutex around each load-mutate-persist cycle keeps the cycle atomic under
// concurrent request handling — that is what makes the two-sided follow
// update and the denormalized counters safe without a transaction manager.
//
// A failed persist is logged at warn level and does not fail the operation:
// the in-memory state stays authoritative and the next successful persist
// re-converges the document. Memory and disk can diverge until then.
package jsonfile

import (
	"log/slog"

	"github.com/ketsia/linklet/internal/store"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// Repositories bundles the jsonfile-backed repositories sharing one store.
type Repositories struct {
	Users *UserRepository
	Posts *PostRepository
}

// New creates user and post repositories over the given store.
func New(st store.Store, logger *slog.Logger) *Repositories {
	return &Repositories{
		Users: NewUserRepository(st, logger),
		Posts: NewPostRepository(st, logger),
	}
}
