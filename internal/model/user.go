// Package model defines the data structures used throughout the application.
package model

// User represents a registered account as stored in the users collection.
//
// PasswordHash is part of the persisted record (the JSON document is the
// database) but must never reach a client — every handler responds with the
// Public projection instead of the raw record.
//
// Followers and Following hold user IDs and are kept mutually consistent:
// B appears in A.Following exactly when A appears in B.Followers. Both sides
// of a follow/unfollow are updated in the same repository write.
//
// PostsCount is a denormalized counter; it equals the number of posts whose
// AuthorID matches this user and is incremented on every post creation.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	ProfilePic   string   `json:"profilePic"`
	Bio          string   `json:"bio"`
	Followers    []string `json:"followers"`
	Following    []string `json:"following"`
	PostsCount   int      `json:"postsCount"`
}

// PublicUser is the client-facing view of a User. It carries everything the
// frontend needs and omits the password hash.
type PublicUser struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	ProfilePic string   `json:"profilePic"`
	Bio        string   `json:"bio"`
	Followers  []string `json:"followers"`
	Following  []string `json:"following"`
	PostsCount int      `json:"postsCount"`
}

// UserSummary is the compact view returned by the user listing (friend
// suggestions). It exposes counts rather than the full ID sets and leaves
// out the email.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePic     string `json:"profilePic"`
	Bio            string `json:"bio"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	PostsCount     int    `json:"postsCount"`
}

// Public returns the client-facing projection of the user.
// Slices are shared, not copied — callers must not mutate them.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Bio:        u.Bio,
		Followers:  u.Followers,
		Following:  u.Following,
		PostsCount: u.PostsCount,
	}
}

// Summary returns the compact listing projection of the user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePic:     u.ProfilePic,
		Bio:            u.Bio,
		FollowersCount: len(u.Followers),
		FollowingCount: len(u.Following),
		PostsCount:     u.PostsCount,
	}
}

// IsFollowing reports whether targetID is in the user's following set.
func (u *User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}
