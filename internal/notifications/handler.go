package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpool-service/pkg/jwt"
)

// Handler exposes the notification feed HTTP endpoints.
type Handler struct{ store *Store }

// NewHandler wires a handler to the notification store.
func NewHandler(store *Store) *Handler { return &Handler{store: store} }

// Routes returns a chi.Router with all notification routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/", h.List)
	r.Post("/{id}/read", h.MarkRead)
	r.Post("/read-all", h.MarkAllRead)

	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.store.List(claims.UserID),
		"unread_count":  h.store.UnreadCount(claims.UserID),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	if !h.store.MarkRead(claims.UserID, chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	h.store.MarkAllRead(claims.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "all_read"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
