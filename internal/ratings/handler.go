package ratings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpool-service/pkg/jwt"
)

// Handler exposes rating HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the rating service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all rating routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public: reviews are visible on any profile
	r.Get("/users/{id}", h.ListForUser)

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireAuth)
		r.Post("/", h.Submit)
	})

	return r
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	rating, err := h.svc.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, ErrAlreadyRated):
			status = http.StatusConflict
		case errors.Is(err, ErrBookingNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrWrongRatedUser):
			status = http.StatusForbidden
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
