package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/model"
	"github.com/ketsia/linklet/internal/repository"
)

const (
	MaxPostLength    = 5000
	MaxCommentLength = 1000
)

// PostService handles the feed: post creation, likes and comments.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPostService creates a PostService. It needs the user repository too:
// post creation snapshots the author and bumps their posts counter.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, users: users, logger: logger}
}

// Create makes a new post for the given author.
//
// A post needs text or media; with neither it is rejected. The author's
// current username and profile picture are copied onto the post — they stay
// as they were at creation time even if the author later changes them.
//
// Two collections change here: the post lands in the posts collection and
// the author's postsCount is bumped in the users collection. Each persists
// on its own; there is no cross-collection transaction.
func (s *PostService) Create(ctx context.Context, authorID, content, mediaURL string) (*model.Post, error) {
	content = strings.TrimSpace(content)

	if content == "" && mediaURL == "" {
		return nil, apperror.ValidationFailed("content", "post content or media is required")
	}
	if len(content) > MaxPostLength {
		return nil, apperror.ValidationFailed("content", "post content is too long")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID:         author.ID,
		AuthorName:       author.Username,
		AuthorProfilePic: author.ProfilePic,
		Content:          content,
		MediaURL:         mediaURL,
		Likes:            []string{},
		Comments:         []model.Comment{},
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	author.PostsCount++
	if err := s.users.Update(ctx, author); err != nil {
		// The post exists but the counter didn't land. Log and return the
		// post anyway; the counter re-converges on the author's next write.
		s.logger.Warn("post created but postsCount update failed",
			slog.String("postID", post.ID),
			slog.String("authorID", author.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("authorID", author.ID),
	)

	return post, nil
}

// Feed returns every post, newest first.
func (s *PostService) Feed(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

// ListByAuthor returns one user's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	if authorID == "" {
		return nil, apperror.ValidationFailed("id", "author ID is required")
	}
	return s.posts.ListByAuthor(ctx, authorID)
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked         bool
	NewLikesCount int
}

// ToggleLike flips the user's membership in the post's likes set. Liking a
// post you already like removes the like; a second call restores the
// original state.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var liked bool
	if post.LikedBy(userID) {
		post.Likes = removeID(post.Likes, userID)
		liked = false
	} else {
		post.Likes = append(post.Likes, userID)
		liked = true
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("like toggled",
		slog.String("postID", postID),
		slog.String("userID", userID),
		slog.Bool("liked", liked),
	)

	return &LikeResult{Liked: liked, NewLikesCount: len(post.Likes)}, nil
}

// AddComment appends a comment to a post and recomputes the denormalized
// comment counter. Comments are immutable once created.
func (s *PostService) AddComment(ctx context.Context, postID, userID, username, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content cannot be empty")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content", "comment is too long")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        xid.New().String(),
		UserID:    userID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	post.Comments = append(post.Comments, comment)
	post.CommentsCount = len(post.Comments)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("postID", postID),
		slog.String("commentID", comment.ID),
		slog.String("userID", userID),
	)

	return &comment, nil
}

// Comments returns a post's comments oldest first — the opposite order from
// the feed, so a thread reads top to bottom.
func (s *PostService) Comments(ctx context.Context, postID string) ([]model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments := append([]model.Comment{}, post.Comments...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.Before(comments[j].Timestamp)
	})
	return comments, nil
}
