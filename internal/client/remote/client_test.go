package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate_CollapsesConcurrentCalls(t *testing.T) {
	var calls int32
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/share", r.URL.Path)
		atomic.AddInt32(&calls, 1)
		<-release
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CreatedShare{ID: "s1", EditURL: "e", ViewURL: "v"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	var wg sync.WaitGroup
	results := make([]*CreatedShare, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			share, err := c.Create(context.Background(), "My map", nil)
			require.NoError(t, err)
			results[i] = share
		}(i)
	}

	// Let all three goroutines pile onto the single in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent creates must share one request")
	for _, share := range results {
		require.NotNil(t, share)
		assert.Equal(t, "s1", share.ID)
	}

	// Once created, no further requests happen.
	again, err := c.Create(context.Background(), "My map", nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", again.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreate_FailureThenRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CreatedShare{ID: "s2"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	share, err := c.Create(context.Background(), "t", nil)
	assert.Error(t, err)
	assert.Nil(t, share)

	share, err = c.Create(context.Background(), "t", nil)
	require.NoError(t, err)
	assert.Equal(t, "s2", share.ID)
}

func TestFetch_TriState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/share/open":
			_ = json.NewEncoder(w).Encode(Document{Title: "Open", UpdatedAt: time.Now().UTC()})
		case "/api/share/gated":
			if r.Header.Get(common.SharePasswordHeaderName) == "hunter2" {
				_ = json.NewEncoder(w).Encode(Document{Title: "Secret"})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	ctx := context.Background()

	doc, err := c.Fetch(ctx, "open", "")
	require.NoError(t, err)
	assert.Equal(t, "Open", doc.Title)

	_, err = c.Fetch(ctx, "gated", "")
	assert.ErrorIs(t, err, common.ErrorPasswordRequired, "401 maps to password-required, not not-found")

	doc, err = c.Fetch(ctx, "gated", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Secret", doc.Title)

	_, err = c.Fetch(ctx, "missing", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFetch_TransportErrorMapsToNotFound(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", testLogger())
	_, err := c.Fetch(context.Background(), "x", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFetchMeta(t *testing.T) {
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/share/s1/meta", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Meta{UpdatedAt: updated})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	meta, err := c.FetchMeta(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.True(t, meta.UpdatedAt.Equal(updated))
}

func TestUpdate_SendsEditTokenAndBody(t *testing.T) {
	var gotToken string
	var gotBody struct {
		Title  string                `json:"title"`
		Places []models.PayloadPlace `json:"places"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotToken = r.Header.Get(common.EditTokenHeaderName)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	c.SetEditToken("cap-token")
	c.Update(context.Background(), "s1", "Renamed", []models.PayloadPlace{{ID: "p0", Title: "A", Lat: 1, Lng: 2}})

	assert.Equal(t, "cap-token", gotToken)
	assert.Equal(t, "Renamed", gotBody.Title)
	require.Len(t, gotBody.Places, 1)
}

func TestPasswordOperations(t *testing.T) {
	hasPassword := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/share/s1/password", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			hasPassword = true
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			hasPassword = false
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]bool{"hasPassword": hasPassword})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "s1", "hunter2"))
	state, err := c.PasswordState(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, state)

	require.NoError(t, c.ClearPassword(ctx, "s1"))
	state, err = c.PasswordState(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state)
}

func TestSetPassword_SurfacesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	assert.Error(t, c.SetPassword(context.Background(), "s1", "pw"))
}
