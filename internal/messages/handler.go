package messages

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpool-service/pkg/jwt"
)

// Handler exposes conversation HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the message service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all message routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/conversations", h.Conversations)
	r.Get("/bookings/{id}", h.Thread)
	r.Post("/bookings/{id}", h.Send)
	r.Post("/bookings/{id}/read", h.MarkRead)

	return r
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	convs, err := h.svc.Conversations(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	msgs, err := h.svc.Thread(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	msg, err := h.svc.Send(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	n, err := h.svc.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"marked_read": n})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
