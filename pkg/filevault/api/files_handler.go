package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/filevault/filevault/pkg/filevault"
)

// TokenHeader carries the opaque bearer token on every authenticated request.
const TokenHeader = "X-Token"

// FilesHandler exposes the file-storage metadata service over HTTP.
type FilesHandler struct {
	service filevault.Service
}

func NewFilesHandler(service filevault.Service) *FilesHandler {
	return &FilesHandler{service: service}
}

// Routes returns the router for files endpoints.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/publish", h.Publish)
	r.Put("/{id}/unpublish", h.Unpublish)
	r.Get("/{id}/data", h.Download)
	return r
}

// EntryResponse is the wire shape of a persisted entry. parentId echoes "0"
// for root-level entries and localPath is null for folders.
type EntryResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	IsPublic  bool    `json:"isPublic"`
	ParentID  string  `json:"parentId"`
	LocalPath *string `json:"localPath"`
}

func newEntryResponse(e *filevault.Entry) EntryResponse {
	resp := EntryResponse{
		ID:       e.ID.String(),
		UserID:   e.OwnerID.String(),
		Name:     e.Name,
		Type:     string(e.Type),
		IsPublic: e.IsPublic,
		ParentID: "0",
	}
	if e.ParentID != filevault.RootParentID {
		resp.ParentID = e.ParentID.String()
	}
	if e.Locator != "" {
		locator := e.Locator
		resp.LocalPath = &locator
	}
	return resp
}

// Upload handles POST /files: the upload transaction.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req filevault.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Token = r.Header.Get(TokenHeader)

	entry, err := h.service.Upload(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("entry created", "id", entry.ID.String(), "type", entry.Type, "owner", entry.OwnerID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newEntryResponse(entry))
}

// Get handles GET /files/{id}.
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, filevault.ErrEntryNotFound)
		return
	}

	entry, err := h.service.GetEntry(r.Context(), filevault.GetEntryRequest{
		Token: r.Header.Get(TokenHeader),
		ID:    id,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, newEntryResponse(entry))
}

// List handles GET /files?parentId=...&page=...
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	entries, err := h.service.ListEntries(r.Context(), filevault.ListEntriesRequest{
		Token:    r.Header.Get(TokenHeader),
		ParentID: filevault.ParentID(r.URL.Query().Get("parentId")),
		Page:     page,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, newEntryResponse(entry))
	}
	render.JSON(w, r, resp)
}

// Publish handles PUT /files/{id}/publish.
func (h *FilesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish handles PUT /files/{id}/unpublish.
func (h *FilesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FilesHandler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, filevault.ErrEntryNotFound)
		return
	}

	entry, err := h.service.SetVisibility(r.Context(), filevault.SetVisibilityRequest{
		Token:    r.Header.Get(TokenHeader),
		ID:       id,
		IsPublic: public,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, newEntryResponse(entry))
}

// Download handles GET /files/{id}/data, streaming the entry's bytes.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, filevault.ErrEntryNotFound)
		return
	}

	rc, entry, err := h.service.Download(r.Context(), filevault.DownloadRequest{
		Token: r.Header.Get(TokenHeader),
		ID:    id,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream entry content", "id", entry.ID.String(), "error", err)
	}
}

// writeError maps service errors onto the stable public error taxonomy:
// Unauthorized, BadRequest with a machine-checkable message, NotFound, or an
// opaque server fault. Internal error text never leaks to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErrorMessage(w, r, status, msg)
}

func writeErrorMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, filevault.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, filevault.ErrMissingName):
		return http.StatusBadRequest, "Missing name"
	case errors.Is(err, filevault.ErrMissingType):
		return http.StatusBadRequest, "Missing type"
	case errors.Is(err, filevault.ErrMissingData):
		return http.StatusBadRequest, "Missing data"
	case errors.Is(err, filevault.ErrInvalidData):
		return http.StatusBadRequest, "Invalid data"
	case errors.Is(err, filevault.ErrParentNotFound):
		return http.StatusBadRequest, "Parent not found"
	case errors.Is(err, filevault.ErrParentNotFolder):
		return http.StatusBadRequest, "Parent is not a folder"
	case errors.Is(err, filevault.ErrNoContent):
		return http.StatusBadRequest, "A folder doesn't have data"
	case errors.Is(err, filevault.ErrEntryNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
