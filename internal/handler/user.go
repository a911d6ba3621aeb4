package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ketsia/linklet/internal/auth"
	"github.com/ketsia/linklet/internal/service"
	"github.com/ketsia/linklet/internal/upload"
)

// UserHandler serves profile, directory and follow endpoints.
type UserHandler struct {
	users   *service.UserService
	posts   *service.PostService
	uploads *upload.Saver
	logger  *slog.Logger
}

func NewUserHandler(users *service.UserService, posts *service.PostService, uploads *upload.Saver, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, posts: posts, uploads: uploads, logger: logger}
}

// HandleMe returns the authenticated user's own profile.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	user, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// HandleUpdateMe updates bio and/or profile picture. The body is multipart
// form data: a "bio" text field and an optional "profilePic" file part, both
// independently optional.
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
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

	var bio *string
	if values, exists := r.MultipartForm.Value["bio"]; exists && len(values) > 0 {
		bio = &values[0]
	}

	var picURL string
	if file, header, err := r.FormFile("profilePic"); err == nil {
		defer file.Close()
		picURL, err = h.uploads.Save(file, header)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, bio, picURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated",
		"user":    user.Public(),
	})
}

// HandleListUsers returns a summary of every account, for the people
// directory.
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// HandleFollow toggles the follow relationship between the caller and the
// target user.
func (h *UserHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	targetID := chi.URLParam(r, "id")

	result, err := h.users.Follow(r.Context(), claims.UserID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("follow toggled",
		slog.String("actor_id", claims.UserID),
		slog.String("target_id", targetID),
		slog.String("action", result.Action))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "User " + result.Action,
		"action":            result.Action,
		"newFollowersCount": result.NewFollowersCount,
	})
}

// HandleUserPosts returns one user's posts, newest first.
func (h *UserHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	posts, err := h.posts.ListByAuthor(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
