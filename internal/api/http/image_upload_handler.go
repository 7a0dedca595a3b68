package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"slices"
	"strings"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/storage"

	"github.com/gorilla/mux"
)

// imageUploadHandler serves the presigned URLs handed out by the local
// filesystem storage backend.
type imageUploadHandler struct {
	files        storage.LocalFiles
	allowedTypes []string
}

func (h *imageUploadHandler) key(r *http.Request) (string, error) {
	key, err := storage.CleanKey(r.URL.Query().Get("key"))
	if err != nil {
		return "", domain.Validationf("invalid key parameter")
	}
	return key, nil
}

// HandleMockUpload mimics an S3 presigned PUT.
func (h *imageUploadHandler) HandleMockUpload(w http.ResponseWriter, r *http.Request) {
	key, err := h.key(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !slices.Contains(h.allowedTypes, strings.ToLower(contentType)) {
		writeError(w, r, domain.Validationf("content type %q is not allowed", contentType))
		return
	}

	if err := h.files.SaveFile(key, r.Body); err != nil {
		writeError(w, r, err)
		return
	}
	logger.Info("Stored upload", "key", key, "token", mux.Vars(r)["token"])
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

func (h *imageUploadHandler) HandleMockDownload(w http.ResponseWriter, r *http.Request) {
	key, err := h.key(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	file, err := h.files.ReadFile(key)
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream file", "key", key, "error", err)
	}
}

// RegisterMockStorageRoutes registers the local storage upload and download
// endpoints.
func RegisterMockStorageRoutes(router *mux.Router, files storage.LocalFiles, allowedTypes []string) {
	h := &imageUploadHandler{files: files, allowedTypes: allowedTypes}
	router.HandleFunc("/api/v1/storage/upload/{token}", h.HandleMockUpload).Methods(http.MethodPut).Name("storage.upload")
	router.HandleFunc("/api/v1/storage/download", h.HandleMockDownload).Methods(http.MethodGet).Name("storage.download")
}
