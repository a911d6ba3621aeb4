package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/model"
)

// Handwritten in-memory fakes for the repository interfaces. They mirror the
// jsonfile semantics (copies out, toggle-friendly updates) minus the disk.

type mockUserRepo struct {
	users  []model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for i := range m.users {
		if m.users[i].Username == user.Username {
			return apperror.Duplicate("username", "username already taken")
		}
		if m.users[i].Email == user.Email {
			return apperror.Duplicate("email", "email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.copyAt(i)
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Username == identifier || m.users[i].Email == identifier {
			u := m.copyAt(i)
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", identifier)
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for i := range m.users {
		out = append(out, m.copyAt(i))
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return apperror.NotFound("user", user.ID)
}

func (m *mockUserRepo) UpdatePair(ctx context.Context, first, second *model.User) error {
	// Verify both exist before touching either, like the real thing.
	if _, err := m.GetByID(ctx, first.ID); err != nil {
		return err
	}
	if _, err := m.GetByID(ctx, second.ID); err != nil {
		return err
	}
	_ = m.Update(ctx, first)
	_ = m.Update(ctx, second)
	return nil
}

func (m *mockUserRepo) copyAt(i int) model.User {
	u := m.users[i]
	u.Followers = append([]string{}, u.Followers...)
	u.Following = append([]string{}, u.Following...)
	return u
}

type mockPostRepo struct {
	posts  []model.Post
	nextID int
	clock  time.Time
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{clock: time.Now().UTC()}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	// Monotonic timestamps so ordering tests are deterministic.
	m.clock = m.clock.Add(time.Second)
	post.Timestamp = m.clock
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	m.posts = append([]model.Post{*post}, m.posts...)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			p := m.copyAt(i)
			return &p, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (m *mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	out := make([]model.Post, 0, len(m.posts))
	for i := range m.posts {
		out = append(out, m.copyAt(i))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	all, _ := m.List(ctx)
	out := []model.Post{}
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) Update(_ context.Context, post *model.Post) error {
	for i := range m.posts {
		if m.posts[i].ID == post.ID {
			m.posts[i] = *post
			return nil
		}
	}
	return apperror.NotFound("post", post.ID)
}

func (m *mockPostRepo) copyAt(i int) model.Post {
	p := m.posts[i]
	p.Likes = append([]string{}, p.Likes...)
	p.Comments = append([]model.Comment{}, p.Comments...)
	return p
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// registerTestUser registers a user through the real AuthService so the
// record looks exactly like production output (hashed password, defaults).
func registerTestUser(t *testing.T, svc *AuthService, username string) *model.User {
	t.Helper()
	res, err := svc.Register(context.Background(), username, username+"@example.com", "pw123456")
	if err != nil {
		t.Fatalf("setup: Register(%s) error = %v", username, err)
	}
	return res.User
}
