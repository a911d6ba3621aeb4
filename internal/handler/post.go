package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ketsia/linklet/internal/auth"
	"github.com/ketsia/linklet/internal/service"
	"github.com/ketsia/linklet/internal/upload"
)

// PostHandler serves the feed, post creation, likes and comments.
type PostHandler struct {
	posts   *service.PostService
	uploads *upload.Saver
	logger  *slog.Logger
}

func NewPostHandler(posts *service.PostService, uploads *upload.Saver, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, uploads: uploads, logger: logger}
}

// HandleFeed returns every post, newest first.
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleCreatePost creates a post from multipart form data: a "content" text
// field and an optional "media" file part. At least one must be present.
func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid multipart form",
		})
		return
	}

	content := r.FormValue("content")

	var mediaURL string
	if file, header, err := r.FormFile("media"); err == nil {
		defer file.Close()
		mediaURL, err = h.uploads.Save(file, header)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	post, err := h.posts.Create(r.Context(), claims.UserID, content, mediaURL)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", claims.UserID))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created",
		"post":    post,
	})
}

// HandleLike toggles the caller's like on a post.
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	postID := chi.URLParam(r, "id")

	result, err := h.posts.ToggleLike(r.Context(), postID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"liked":         result.Liked,
		"newLikesCount": result.NewLikesCount,
	})
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment appends a comment to a post.
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid JSON body",
		})
		return
	}

	postID := chi.URLParam(r, "id")

	comment, err := h.posts.AddComment(r.Context(), postID, claims.UserID, claims.Username, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment added",
		"comment": comment,
	})
}

// HandleListComments returns a post's comments, oldest first.
func (h *PostHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	comments, err := h.posts.Comments(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}
