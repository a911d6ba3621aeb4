package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/model"
	"github.com/ketsia/linklet/internal/repository"
)

const MaxBioLength = 500

// UserService handles profiles and the social graph.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get returns the user with the given ID.
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, userID)
}

// List returns compact public summaries of every user, for the friend
// suggestions view.
func (s *UserService) List(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, *users[i].Summary())
	}
	return summaries, nil
}

// UpdateProfile applies a partial profile update: only supplied fields
// change. A nil bio means "leave the bio alone"; an empty profilePicURL means
// "keep the current picture".
func (s *UserService) UpdateProfile(ctx context.Context, userID string, bio *string, profilePicURL string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		trimmed := strings.TrimSpace(*bio)
		if len(trimmed) > MaxBioLength {
			return nil, apperror.ValidationFailed("bio", "bio is too long")
		}
		user.Bio = trimmed
	}
	if profilePicURL != "" {
		user.ProfilePic = profilePicURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", user.ID))
	return user, nil
}

// FollowResult reports the outcome of a follow toggle. NewFollowersCount is
// the target's follower count after the mutation, for the frontend counter.
type FollowResult struct {
	Action            string // "followed" or "unfollowed"
	NewFollowersCount int
}

// Follow toggles the follow relationship from actor to target.
//
// Self-follows are rejected before any lookup and never mutate state. The
// two sides of the relationship — actor.following and target.followers —
// are updated in the same pass and handed to the repository as one write,
// so no reader ever observes a half-applied follow.
func (s *UserService) Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, apperror.ValidationFailed("id", "you cannot follow yourself")
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	var action string
	if actor.IsFollowing(targetID) {
		actor.Following = removeID(actor.Following, targetID)
		target.Followers = removeID(target.Followers, actorID)
		action = "unfollowed"
	} else {
		actor.Following = append(actor.Following, targetID)
		target.Followers = append(target.Followers, actorID)
		action = "followed"
	}

	if err := s.users.UpdatePair(ctx, actor, target); err != nil {
		return nil, err
	}

	s.logger.Info("follow toggled",
		slog.String("actorID", actorID),
		slog.String("targetID", targetID),
		slog.String("action", action),
	)

	return &FollowResult{
		Action:            action,
		NewFollowersCount: len(target.Followers),
	}, nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
