package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/destination-seeder/internal/api"
	"github.com/neexbeast/destination-seeder/internal/backend"
	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/storage"
)

// ---- mock implementations ----

type failingStore struct{ err error }

func (f *failingStore) CreateDestination(_ context.Context, _ destination.Record) (*destination.Destination, error) {
	return nil, f.err
}
func (f *failingStore) GetDestination(_ context.Context, _ string) (*destination.Destination, error) {
	return nil, f.err
}
func (f *failingStore) ListDestinations(_ context.Context, _ string, _ int) ([]*destination.Destination, error) {
	return nil, f.err
}

type failingObjects struct{ err error }

func (f *failingObjects) Put(_ context.Context, _, _ string, _ []byte) (string, error) {
	return "", f.err
}
func (f *failingObjects) Get(_ context.Context, _ string) (storage.Object, bool, error) {
	return storage.Object{}, false, f.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// ---- helpers ----

const testToken = "secret-token"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func buildRouter(store api.DestinationStore, objects api.ObjectStore, token string, storePing, objectsPing *mockPinger) http.Handler {
	if store == nil {
		store = storage.NewMemoryRepository()
	}
	if objects == nil {
		objects = storage.NewMemoryObjects("http://stub.test")
	}
	if storePing == nil {
		storePing = &mockPinger{}
	}
	if objectsPing == nil {
		objectsPing = &mockPinger{}
	}
	handlers := api.NewHandlers(store, objects, quietLog())
	return api.NewRouter(handlers, token, storePing, objectsPing, quietLog())
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&env))
	}
	return w, env
}

func multipartRequest(t *testing.T, filename string, data []byte, folder string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("folder", folder))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/upload/single", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ---- POST /api/v1/media/upload/single ----

func TestUploadSingle_StoresAndServes(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, multipartRequest(t, "pic.jpg", []byte("\xff\xd8\xffjpeg"), "destinations/abc"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var url string
	require.NoError(t, json.Unmarshal(env.Data, &url))
	assert.Equal(t, "http://stub.test/media/destinations/abc/pic.jpg", url)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/destinations/abc/pic.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\xff\xd8\xffjpeg", w.Body.String())
}

func TestUploadSingle_FolderCannotEscape(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, multipartRequest(t, "../../x.jpg", []byte("x"), "../../etc"))
	require.Equal(t, http.StatusCreated, w.Code)

	var url string
	require.NoError(t, json.Unmarshal(env.Data, &url))
	assert.Equal(t, "http://stub.test/media/etc/x.jpg", url)
}

func TestUploadSingle_MissingFile(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, multipartRequest(t, "", nil, "destinations/abc"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "file is required", env.Error)
}

func TestUploadSingle_NotMultipart(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/upload/single", bytes.NewBufferString("plain"))
	req.Header.Set("Content-Type", "text/plain")
	w, _ := do(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadSingle_StoreError(t *testing.T) {
	router := buildRouter(nil, &failingObjects{err: fmt.Errorf("disk full")}, "", nil, nil)

	w, env := do(t, router, multipartRequest(t, "pic.jpg", []byte("x"), "f"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

// ---- GET /media/* ----

func TestServeMedia_NotFound(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/media/nope.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeMedia_StoreError(t *testing.T) {
	router := buildRouter(nil, &failingObjects{err: fmt.Errorf("boom")}, "", nil, nil)

	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/media/a.jpg", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ---- destinations ----

func TestCreateDestination_ThenGet(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	rec := destination.Record{Name: "Dakar", Region: "West Africa", Images: []string{"a"}, Active: true}
	w, env := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/destinations", rec))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var created destination.Destination
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Dakar", created.Name)

	w, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got destination.Destination
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created, got)
}

func TestCreateDestination_NameRequired(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/destinations", destination.Record{Region: "Europe"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", env.Error)
}

func TestCreateDestination_InvalidJSON(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/destinations", bytes.NewBufferString("{"))
	w, _ := do(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDestination_StoreError(t *testing.T) {
	router := buildRouter(&failingStore{err: fmt.Errorf("db down")}, nil, "", nil, nil)

	w, _ := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/destinations", destination.Record{Name: "Dakar"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetDestination_NotFound(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestGetDestination_StoreError(t *testing.T) {
	router := buildRouter(&failingStore{err: fmt.Errorf("db down")}, nil, "", nil, nil)

	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListDestinations_FilterAndLimit(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)
	for _, rec := range []destination.Record{
		{Name: "Dakar", Region: "West Africa"},
		{Name: "Mock Lyon", Region: "Europe"},
		{Name: "Accra", Region: "West Africa"},
	} {
		w, _ := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/destinations", rec))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	_, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations?region=West+Africa", nil))
	var list []destination.Destination
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Dakar", list[0].Name)
	assert.Equal(t, "Accra", list[1].Name)

	_, env = do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations?limit=1", nil))
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestListDestinations_EmptyIsArray(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestListDestinations_BadLimit(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)

	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations?limit=-4", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- GET /api/v1/health ----

func TestHealth_OK(t *testing.T) {
	router := buildRouter(nil, nil, testToken, nil, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["store"])
	assert.Equal(t, "ok", body["objects"])
}

func TestHealth_StoreDown(t *testing.T) {
	router := buildRouter(nil, nil, "", &mockPinger{err: fmt.Errorf("db unreachable")}, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "error", body["store"])
}

func TestHealth_ObjectsDown(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, &mockPinger{err: fmt.Errorf("minio unreachable")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// ---- Auth middleware ----

func TestBearerAuth_NoHeader(t *testing.T) {
	router := buildRouter(nil, nil, testToken, nil, nil)
	w, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Error)
}

func TestBearerAuth_WrongToken(t *testing.T) {
	router := buildRouter(nil, nil, testToken, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w, _ := do(t, router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_MissingBearerPrefix(t *testing.T) {
	router := buildRouter(nil, nil, testToken, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	req.Header.Set("Authorization", testToken) // no "Bearer " prefix
	w, _ := do(t, router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_ValidToken(t *testing.T) {
	router := buildRouter(nil, nil, testToken, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w, _ := do(t, router, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuth_DisabledWithoutToken(t *testing.T) {
	router := buildRouter(nil, nil, "", nil, nil)
	w, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// ---- backend client against the stand-in ----

func TestBackendClientRoundTrip(t *testing.T) {
	objects := storage.NewMemoryObjects("")
	store := storage.NewMemoryRepository()
	handlers := api.NewHandlers(store, objects, quietLog())
	srv := httptest.NewServer(api.NewRouter(handlers, testToken, &mockPinger{}, &mockPinger{}, quietLog()))
	defer srv.Close()

	client := backend.NewClient(srv.URL+"/api/v1", testToken)
	ctx := context.Background()

	url, err := client.UploadImage(ctx, "one.jpg", []byte("img"), "destinations/xyz")
	require.NoError(t, err)
	assert.Equal(t, "/media/destinations/xyz/one.jpg", url)

	id, err := client.CreateDestination(ctx, destination.Record{Name: "Lagos", Images: []string{url}})
	require.NoError(t, err)

	stored, err := store.GetDestination(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{url}, stored.Images)
}
