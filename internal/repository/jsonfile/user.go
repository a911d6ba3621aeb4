package jsonfile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/model"
	"github.com/ketsia/linklet/internal/repository"
	"github.com/ketsia/linklet/internal/store"
)

// compile-time check that *UserRepository implements the interface
var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository stores users in the "users" collection.
type UserRepository struct {
	store  store.Store
	logger *slog.Logger

	mu     sync.Mutex
	users  []model.User
	loaded bool
}

// NewUserRepository creates a UserRepository over the given store. The
// collection is loaded lazily on first access.
func NewUserRepository(st store.Store, logger *slog.Logger) *UserRepository {
	return &UserRepository{store: st, logger: logger}
}

// ensureLoaded reads the collection from the store once. Must be called with
// the mutex held.
func (r *UserRepository) ensureLoaded() {
	if r.loaded {
		return
	}
	users := []model.User{}
	if err := r.store.Load(usersCollection, &users); err != nil {
		// The store already degrades read failures to an empty collection;
		// anything surfacing here is unexpected but still non-fatal.
		r.logger.Warn("loading users collection",
			slog.String("error", err.Error()),
		)
	}
	r.users = users
	r.loaded = true
}

// persist writes the collection back. Persist failures are logged, not
// returned: the in-memory state is not rolled back.
func (r *UserRepository) persist() {
	if err := r.store.Persist(usersCollection, r.users); err != nil {
		r.logger.Warn("persisting users collection failed, memory and disk diverge",
			slog.String("error", err.Error()),
		)
	}
}

// indexOf returns the position of the user with the given ID, or -1.
// Must be called with the mutex held.
func (r *UserRepository) indexOf(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

// Create assigns an ID and appends the user, enforcing username and email
// uniqueness with case-sensitive exact matching.
func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	for i := range r.users {
		if r.users[i].Username == user.Username {
			return apperror.Duplicate("username", "username already taken")
		}
		if r.users[i].Email == user.Email {
			return apperror.Duplicate("email", "email already registered")
		}
	}

	user.ID = xid.New().String()
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}

	r.users = append(r.users, *user)
	r.persist()
	return nil
}

// GetByID returns a copy of the user with the given ID.
func (r *UserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("user", id)
	}
	u := r.copyAt(i)
	return &u, nil
}

// GetByIdentifier returns a copy of the user whose username or email exactly
// matches identifier.
func (r *UserRepository) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	for i := range r.users {
		if r.users[i].Username == identifier || r.users[i].Email == identifier {
			u := r.copyAt(i)
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", identifier)
}

// List returns copies of all users in storage order.
func (r *UserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	out := make([]model.User, 0, len(r.users))
	for i := range r.users {
		out = append(out, r.copyAt(i))
	}
	return out, nil
}

// Update replaces the stored record matching user.ID and persists.
func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	i := r.indexOf(user.ID)
	if i < 0 {
		return apperror.NotFound("user", user.ID)
	}
	r.users[i] = *user
	r.persist()
	return nil
}

// UpdatePair replaces two stored records and persists once. Either both
// updates land in the backing document or neither does — a reader can never
// observe a follow relationship with only one side written.
func (r *UserRepository) UpdatePair(_ context.Context, first, second *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	i := r.indexOf(first.ID)
	j := r.indexOf(second.ID)
	if i < 0 {
		return apperror.NotFound("user", first.ID)
	}
	if j < 0 {
		return apperror.NotFound("user", second.ID)
	}

	r.users[i] = *first
	r.users[j] = *second
	r.persist()
	return nil
}

// copyAt returns a deep copy of the user at index i so callers cannot alias
// the repository's internal slices. Must be called with the mutex held.
func (r *UserRepository) copyAt(i int) model.User {
	u := r.users[i]
	u.Followers = append([]string(nil), u.Followers...)
	u.Following = append([]string(nil), u.Following...)
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	return u
}
