package jsonfile

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/model"
	"github.com/ketsia/linklet/internal/repository"
	"github.com/ketsia/linklet/internal/store"
)

var _ repository.PostRepository = (*PostRepository)(nil)

// PostRepository stores posts in the "posts" collection. Storage order is
// newest-first: Create prepends.
type PostRepository struct {
	store  store.Store
	logger *slog.Logger

	mu     sync.Mutex
	posts  []model.Post
	loaded bool
}

// NewPostRepository creates a PostRepository over the given store.
func NewPostRepository(st store.Store, logger *slog.Logger) *PostRepository {
	return &PostRepository{store: st, logger: logger}
}

func (r *PostRepository) ensureLoaded() {
	if r.loaded {
		return
	}
	posts := []model.Post{}
	if err := r.store.Load(postsCollection, &posts); err != nil {
		r.logger.Warn("loading posts collection",
			slog.String("error", err.Error()),
		)
	}
	r.posts = posts
	r.loaded = true
}

func (r *PostRepository) persist() {
	if err := r.store.Persist(postsCollection, r.posts); err != nil {
		r.logger.Warn("persisting posts collection failed, memory and disk diverge",
			slog.String("error", err.Error()),
		)
	}
}

func (r *PostRepository) indexOf(id string) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// Create assigns an ID and timestamp and prepends the post.
func (r *PostRepository) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	post.ID = xid.New().String()
	post.Timestamp = time.Now().UTC()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	r.posts = append([]model.Post{*post}, r.posts...)
	r.persist()
	return nil
}

// GetByID returns a copy of the post with the given ID.
func (r *PostRepository) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("post", id)
	}
	p := r.copyAt(i)
	return &p, nil
}

// List returns copies of all posts sorted descending by timestamp. The sort
// is stable so posts sharing a timestamp keep their newest-first storage
// order.
func (r *PostRepository) List(_ context.Context) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	out := make([]model.Post, 0, len(r.posts))
	for i := range r.posts {
		out = append(out, r.copyAt(i))
	}
	sortByTimestampDesc(out)
	return out, nil
}

// ListByAuthor returns copies of the author's posts, same order as List.
func (r *PostRepository) ListByAuthor(_ context.Context, authorID string) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	out := []model.Post{}
	for i := range r.posts {
		if r.posts[i].AuthorID == authorID {
			out = append(out, r.copyAt(i))
		}
	}
	sortByTimestampDesc(out)
	return out, nil
}

// Update replaces the stored record matching post.ID and persists.
func (r *PostRepository) Update(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	i := r.indexOf(post.ID)
	if i < 0 {
		return apperror.NotFound("post", post.ID)
	}
	r.posts[i] = *post
	r.persist()
	return nil
}

func (r *PostRepository) copyAt(i int) model.Post {
	p := r.posts[i]
	p.Likes = append([]string{}, p.Likes...)
	p.Comments = append([]model.Comment{}, p.Comments...)
	return p
}

func sortByTimestampDesc(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
}
