// Package api exposes the user and image operations over HTTP. Routing uses
// chi; authentication is a bearer token minted by the login endpoint.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndenisov/imgvault/internal/logging"
	"github.com/ndenisov/imgvault/internal/server/auth"
	"github.com/ndenisov/imgvault/internal/server/config"
	"github.com/ndenisov/imgvault/internal/server/models"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 10 << 20

// UserService is the part of the user service the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, username, password, email string) (*models.UserSummary, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	GetByUsername(ctx context.Context, username string) (*models.UserSummary, error)
	Delete(ctx context.Context, username string) error
	AssociateImages(ctx context.Context, username string, imageIDs []string) error
}

// ImageService is the part of the image service the HTTP layer needs.
type ImageService interface {
	Upload(ctx context.Context, content []byte, username string) (*models.ImageSummary, error)
	Delete(ctx context.Context, imageID, username string) error
	List(ctx context.Context, username string) ([]models.ImageSummary, error)
	GetByID(ctx context.Context, imageID string) (*models.ImageSummary, error)
}

type Handler struct {
	users  UserService
	images ImageService
	secret []byte
	logger logging.Logger
}

func NewHandler(users UserService, images ImageService, cfg *config.Config, l logging.Logger) *Handler {
	return &Handler{
		users:  users,
		images: images,
		secret: []byte(cfg.SecretKey),
		logger: l.With("component", "http"),
	}
}

// Router builds the route table. Registration and login are public,
// everything else requires a bearer token.
func (h *Handler) Router(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Route("/users/{username}", func(r chi.Router) {
				r.Get("/", h.getUser)
				r.Delete("/", h.deleteUser)
				r.Get("/images", h.listImages)
				r.Post("/images", h.uploadImage)
				r.Put("/images", h.associateImages)
			})

			r.Route("/images/{imageID}", func(r chi.Router) {
				r.Get("/", h.getImage)
				r.Delete("/", h.deleteImage)
			})
		})
	})

	return r
}

// requireSelf allows the request only when the token subject matches the
// username in the path.
func (h *Handler) requireSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := chi.URLParam(r, "username")
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	if err := auth.Authorize(subject, username); err != nil {
		h.respondServiceError(w, r, err)
		return "", false
	}
	return username, true
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), username); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	images, err := h.images.List(r.Context(), username)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, images)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable image file")
		return
	}

	image, err := h.images.Upload(r.Context(), content, username)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, image)
}

func (h *Handler) associateImages(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	var req struct {
		ImageIDs []string `json:"image_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.AssociateImages(r.Context(), username, req.ImageIDs); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.images.GetByID(r.Context(), chi.URLParam(r, "imageID"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, image)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.images.Delete(r.Context(), chi.URLParam(r, "imageID"), subject); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
