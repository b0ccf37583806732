// Package remote is the HTTP facade over the hosted share service: create,
// fetch (optionally password-gated), update, and lightweight metadata
// polling. Transport and non-success errors are never fatal here; they map
// to sentinels the sync layer degrades on.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
)

// CreatedShare is the result of publishing a list to the share service.
// EditToken is the signed edit capability; holding it is what grants write
// access to the hosted copy.
type CreatedShare struct {
	ID        string `json:"id"`
	EditURL   string `json:"editUrl"`
	ViewURL   string `json:"viewUrl"`
	EditToken string `json:"editToken"`
}

// Document is a hosted copy of a list.
type Document struct {
	Title     string                `json:"title"`
	Places    []models.PayloadPlace `json:"places"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// Meta carries only the freshness timestamp, for cheap change polling.
type Meta struct {
	UpdatedAt time.Time `json:"updatedAt"`
}

type createFlight struct {
	done  chan struct{}
	share *CreatedShare
	err   error
}

// Client talks to one share service. It remembers the share it created so
// repeated share actions reuse the hosted document, and collapses
// concurrent Create calls into a single in-flight request.
type Client struct {
	baseURL   string
	http      *http.Client
	log       logging.Logger
	editToken string

	mu      sync.Mutex
	created *CreatedShare
	flight  *createFlight
}

func NewClient(baseURL string, log logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// SetEditToken installs the signed edit capability sent with updates.
func (c *Client) SetEditToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editToken = token
}

// Known returns the share created through this client, if any.
func (c *Client) Known() *CreatedShare {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// Create publishes the list and returns its id and access URLs. A nil
// result means no remote copy could be created; the caller falls back to
// stateless-link sharing when it only needed read-only access. Concurrent
// calls share one request so duplicate remote documents are never produced.
func (c *Client) Create(ctx context.Context, title string, places []models.PayloadPlace) (*CreatedShare, error) {
	c.mu.Lock()
	if c.created != nil {
		share := c.created
		c.mu.Unlock()
		return share, nil
	}
	if c.flight != nil {
		flight := c.flight
		c.mu.Unlock()
		select {
		case <-flight.done:
			return flight.share, flight.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	flight := &createFlight{done: make(chan struct{})}
	c.flight = flight
	c.mu.Unlock()

	share, err := c.doCreate(ctx, title, places)

	c.mu.Lock()
	if err == nil {
		c.created = share
		if share.EditToken != "" {
			c.editToken = share.EditToken
		}
	}
	flight.share = share
	flight.err = err
	c.flight = nil
	c.mu.Unlock()
	close(flight.done)

	return share, err
}

func (c *Client) doCreate(ctx context.Context, title string, places []models.PayloadPlace) (*CreatedShare, error) {
	body := map[string]any{"title": title, "places": places}

	var share CreatedShare
	status, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/share", "", body, &share)
	if err != nil {
		return nil, fmt.Errorf("share create failed: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("share create failed: status %d", status)
	}
	return &share, nil
}

// Fetch loads the hosted document. The result is tri-state: a document, a
// common.ErrorPasswordRequired (the share is gated and the password was
// missing or wrong), or common.ErrorNotFound for everything else.
func (c *Client) Fetch(ctx context.Context, id, password string) (*Document, error) {
	var doc Document
	status, err := c.doJSON(ctx, http.MethodGet, c.shareURL(id), password, nil, &doc)
	if err != nil {
		c.log.Debug(ctx, "share fetch failed", "share_id", id, "error", err)
		return nil, common.ErrorNotFound
	}
	switch status {
	case http.StatusOK:
		return &doc, nil
	case http.StatusUnauthorized:
		return nil, common.ErrorPasswordRequired
	default:
		return nil, common.ErrorNotFound
	}
}

// FetchMeta loads only the freshness timestamp, with the same tri-state
// mapping as Fetch.
func (c *Client) FetchMeta(ctx context.Context, id, password string) (*Meta, error) {
	var meta Meta
	status, err := c.doJSON(ctx, http.MethodGet, c.shareURL(id)+"/meta", password, nil, &meta)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	switch status {
	case http.StatusOK:
		return &meta, nil
	case http.StatusUnauthorized:
		return nil, common.ErrorPasswordRequired
	default:
		return nil, common.ErrorNotFound
	}
}

// Update pushes title/places to the hosted copy. Fire-and-forget: failures
// are logged, never surfaced; the local copy remains the source of truth
// for the session.
func (c *Client) Update(ctx context.Context, id, title string, places []models.PayloadPlace) {
	body := map[string]any{"title": title, "places": places}

	status, err := c.doJSON(ctx, http.MethodPut, c.shareURL(id), "", body, nil)
	if err != nil {
		c.log.Warn(ctx, "remote share save failed", "share_id", id, "error", err)
		return
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		c.log.Warn(ctx, "remote share save rejected", "share_id", id, "status", status)
	}
}

// SetPassword gates the share. This is an explicit user action, so the
// error is surfaced.
func (c *Client) SetPassword(ctx context.Context, id, password string) error {
	status, err := c.doJSON(ctx, http.MethodPut, c.shareURL(id)+"/password", "", map[string]string{"password": password}, nil)
	if err != nil {
		return fmt.Errorf("password set failed: %w", err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("password set failed: status %d", status)
	}
	return nil
}

// ClearPassword removes the gate. Explicit user action; error surfaced.
func (c *Client) ClearPassword(ctx context.Context, id string) error {
	status, err := c.doJSON(ctx, http.MethodDelete, c.shareURL(id)+"/password", "", nil, nil)
	if err != nil {
		return fmt.Errorf("password delete failed: %w", err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("password delete failed: status %d", status)
	}
	return nil
}

// PasswordState reports whether the share currently has a password.
func (c *Client) PasswordState(ctx context.Context, id string) (bool, error) {
	var out struct {
		HasPassword bool `json:"hasPassword"`
	}
	status, err := c.doJSON(ctx, http.MethodGet, c.shareURL(id)+"/password", "", nil, &out)
	if err != nil {
		return false, fmt.Errorf("password state failed: %w", err)
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("password state failed: status %d", status)
	}
	return out.HasPassword, nil
}

// Ping probes service reachability.
func (c *Client) Ping(ctx context.Context) error {
	status, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/health", "", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", status)
	}
	return nil
}

func (c *Client) shareURL(id string) string {
	return c.baseURL + "/api/share/" + id
}

// doJSON performs one request and decodes a JSON body into out (when out is
// non-nil and the status is a success). Non-2xx statuses are returned to
// the caller for mapping, not treated as transport errors.
func (c *Client) doJSON(ctx context.Context, method, url, password string, in, out any) (int, error) {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if password != "" {
		req.Header.Set(common.SharePasswordHeaderName, password)
	}
	c.mu.Lock()
	token := c.editToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set(common.EditTokenHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response failed: %w", err)
		}
	}
	return resp.StatusCode, nil
}
