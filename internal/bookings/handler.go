package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpool-service/internal/trips"
	"carpool-service/pkg/jwt"
)

// Handler exposes booking HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the booking service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all booking routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth) // all booking endpoints need auth

	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Get("/requests", h.ListRequests)
	r.Patch("/{id}/status", h.SetStatus)

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	booking, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, trips.ErrTripNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotEnoughSeats):
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	lists, err := h.svc.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	requests, err := h.svc.ListRequests(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	booking, err := h.svc.SetStatus(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, ErrBookingNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotTripDriver):
			status = http.StatusForbidden
		case errors.Is(err, ErrNotPending):
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
