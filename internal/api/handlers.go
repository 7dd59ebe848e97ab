package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

const (
	maxUploadBytes   = 10 << 20
	defaultListLimit = 20
	maxListLimit     = 200
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	store   DestinationStore
	objects ObjectStore
	log     *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(store DestinationStore, objects ObjectStore, log *slog.Logger) *Handlers {
	return &Handlers{
		store:   store,
		objects: objects,
		log:     log,
	}
}

// envelope is the response body shape of the destination service.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// UploadSingle handles POST /api/v1/media/upload/single.
// Stores the "file" part under <folder>/<filename> and returns its URL.
func (h *Handlers) UploadSingle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	name := path.Base(header.Filename)
	if name == "." || name == "/" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}
	folder := strings.Trim(path.Clean("/"+r.FormValue("folder")), "/")
	key := name
	if folder != "" {
		key = folder + "/" + name
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.objects.Put(r.Context(), key, contentType, data)
	if err != nil {
		h.log.Error("object put failed", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.log.Info("media uploaded", "key", key, "bytes", len(data))
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "file uploaded", Data: url})
}

// ServeMedia handles GET /media/*.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	obj, ok, err := h.objects.Get(r.Context(), key)
	if err != nil {
		h.log.Error("object get failed", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

// CreateDestination handles POST /api/v1/destinations.
func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var rec destination.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(rec.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	d, err := h.store.CreateDestination(r.Context(), rec)
	if err != nil {
		h.log.Error("create destination failed", "name", rec.Name, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store destination")
		return
	}

	h.log.Info("destination created", "id", d.ID, "name", d.Name)
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "destination created", Data: d})
}

// GetDestination handles GET /api/v1/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.store.GetDestination(r.Context(), id)
	if err != nil {
		h.log.Error("get destination failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: d})
}

// ListDestinations handles GET /api/v1/destinations?region=&limit=.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := h.store.ListDestinations(r.Context(), region, limit)
	if err != nil {
		h.log.Error("list destinations failed", "region", region, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if list == nil {
		list = []*destination.Destination{}
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: list})
}

// HealthHandlerFunc returns an http.HandlerFunc that checks the destination
// store and the object store.
func HealthHandlerFunc(store, objects Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		storeStatus := "ok"
		objectsStatus := "ok"

		if err := store.Ping(ctx); err != nil {
			log.Error("health check: store ping failed", "err", err)
			storeStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := objects.Ping(ctx); err != nil {
			log.Error("health check: object store ping failed", "err", err)
			objectsStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		writeJSON(w, status, map[string]string{
			"status":  overall,
			"store":   storeStatus,
			"objects": objectsStatus,
		})
	}
}
