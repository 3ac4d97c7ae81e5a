package verifications

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/storage"
)

// Handler exposes identity verification HTTP endpoints.
type Handler struct {
	svc   *Service
	store *storage.Client
}

// NewHandler wires a handler to the verification service and object store.
func NewHandler(svc *Service, store *storage.Client) *Handler {
	return &Handler{svc: svc, store: store}
}

// Routes returns a chi.Router with all verification routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Post("/", h.Submit)
	r.Get("/me", h.Latest)

	// Admin review queue
	r.Get("/", h.List)
	r.Patch("/{id}/approve", h.Approve)
	r.Patch("/{id}/reject", h.Reject)

	return r
}

// Submit accepts a multipart form: document_type, document (image), and an
// optional selfie. Files are stored under the caller's prefix.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	if err := r.ParseMultipartForm(2 * storage.MaxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	documentType := r.FormValue("document_type")

	docURL, err := h.uploadImage(r, "document", claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var selfieURL *string
	if len(r.MultipartForm.File["selfie"]) > 0 {
		url, err := h.uploadImage(r, "selfie", claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		selfieURL = &url
	}

	v, err := h.svc.Submit(r.Context(), claims.UserID, documentType, docURL, selfieURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) uploadImage(r *http.Request, field, userID string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", errors.New(field + " file is required")
	}
	defer file.Close()

	if err := checkImage(header); err != nil {
		return "", err
	}

	url, err := h.store.Upload(r.Context(), storage.BucketIdentityDocuments, userID,
		filepath.Ext(header.Filename), file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		return "", errors.New("upload failed")
	}
	return url, nil
}

func checkImage(header *multipart.FileHeader) error {
	if header.Size > storage.MaxUploadSize {
		return errors.New("file must not exceed 5 MB")
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return errors.New("file must be an image")
	}
	return nil
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	v, err := h.svc.Latest(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verification": v})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	entries, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verifications": entries})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	v, err := h.svc.Approve(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	v, err := h.svc.Reject(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrReasonRequired):
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
