package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/config"
	"github.com/dmitrijs2005/geolists/internal/server/repositories/shares"
	"github.com/dmitrijs2005/geolists/internal/server/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		BaseURL:                   "http://maps.example.com",
		SecretKey:                 "test-secret",
		EditTokenValidityDuration: time.Hour,
		S3Region:                  "us-east-1",
		S3RootUser:                "minioadmin",
		S3RootPassword:            "minioadmin",
		S3Bucket:                  "geolists",
		S3BaseEndpoint:            "http://127.0.0.1:9000",
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(
		services.NewShareService(shares.NewInMemoryRepository(), cfg),
		services.NewPhotoService(cfg),
		log,
	)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createShare(t *testing.T, srv *Server) createdShareResponse {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/share", map[string]any{
		"title": "Trip",
		"places": []models.PayloadPlace{
			{ID: "p0", Title: "Cafe", Lat: 43.2389, Lng: 76.945},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created createdShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.EditToken)
	return created
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAndFetchShare(t *testing.T) {
	srv := newTestServer(t)
	created := createShare(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc shareDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Trip", doc.Title)
	require.Len(t, doc.Places, 1)
	assert.Equal(t, "Cafe", doc.Places[0].Title)
	assert.False(t, doc.UpdatedAt.IsZero())
}

func TestCreateShare_BadBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/share", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchShare_NotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/share/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateShare_TokenEnforced(t *testing.T) {
	srv := newTestServer(t)
	created := createShare(t, srv)

	body := map[string]any{"title": "Renamed", "places": []models.PayloadPlace{}}

	rec := doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID, body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID, body,
		map[string]string{common.EditTokenHeaderName: "garbage"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID, body,
		map[string]string{common.EditTokenHeaderName: created.EditToken})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc shareDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Renamed", doc.Title)
	assert.Empty(t, doc.Places)
}

func TestPasswordFlow(t *testing.T) {
	srv := newTestServer(t)
	created := createShare(t, srv)
	auth := map[string]string{common.EditTokenHeaderName: created.EditToken}

	rec := doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID+"/password", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasPassword":false}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID+"/password",
		map[string]string{"password": "hunter2"}, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Gated now: no password and wrong password both get 401.
	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID+"/meta", nil,
		map[string]string{common.SharePasswordHeaderName: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID, nil,
		map[string]string{common.SharePasswordHeaderName: "hunter2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/share/"+created.ID+"/password", nil, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetPassword_RequiresBodyAndToken(t *testing.T) {
	srv := newTestServer(t)
	created := createShare(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID+"/password",
		map[string]string{"password": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID+"/password",
		map[string]string{"password": "pw"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMeta_TracksUpdates(t *testing.T) {
	srv := newTestServer(t)
	created := createShare(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID+"/meta", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var before struct {
		UpdatedAt time.Time `json:"updatedAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))

	time.Sleep(5 * time.Millisecond)
	rec = doRequest(t, srv, http.MethodPut, "/api/share/"+created.ID,
		map[string]any{"title": "Trip", "places": []models.PayloadPlace{}},
		map[string]string{common.EditTokenHeaderName: created.EditToken})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+created.ID+"/meta", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after struct {
		UpdatedAt time.Time `json:"updatedAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

// Presigning is computed locally, so the handler works without a reachable
// object store.
func TestPhotoPresign(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/photos/presign", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Key)
	assert.Contains(t, out.URL, "X-Amz-Signature")

	rec = doRequest(t, srv, http.MethodGet, "/api/photos/"+out.Key, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.URL, "X-Amz-Signature")
}
