package model

import "time"

// Post is a feed entry as stored in the posts collection.
//
// AuthorName and AuthorProfilePic snapshot the author's values at creation
// time. They are not refreshed when the author later changes their profile;
// old posts keep the old name and picture. That staleness is deliberate.
//
// Content and MediaURL are both optional, but at least one must be present —
// the service rejects posts that have neither.
//
// Likes is a set of user IDs with toggle semantics: liking a post you already
// like removes the like. Comments is append-only; CommentsCount mirrors its
// length and is recomputed on every append.
type Post struct {
	ID               string    `json:"id"`
	AuthorID         string    `json:"authorId"`
	AuthorName       string    `json:"authorName"`
	AuthorProfilePic string    `json:"authorProfilePic"`
	Content          string    `json:"content"`
	MediaURL         string    `json:"mediaUrl"`
	Timestamp        time.Time `json:"timestamp"`
	Likes            []string  `json:"likes"`
	Comments         []Comment `json:"comments"`
	CommentsCount    int       `json:"commentsCount"`
}

// Comment is a single comment on a post. Comments are immutable once
// created; there is no edit or delete operation.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LikedBy reports whether userID is in the post's likes set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
