package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geolists/internal/client/remote"
	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/sharecode"
)

// EncodeLink builds the stateless share token for the currently visible
// places. Works in every mode and never fails.
func (c *Controller) EncodeLink(editable bool) string {
	c.mu.Lock()
	title := common.DefaultListTitle
	if active := c.collection.Find(c.collection.ActiveListID); active != nil {
		title = titleOrDefault(active.Title)
	}
	places := c.visiblePlacesLocked()
	c.mu.Unlock()

	return sharecode.Encode(models.SharePayload{
		Title:    title,
		Places:   models.ToPayloadPlaces(places),
		Editable: editable,
	})
}

// Share publishes the active list as a hosted document and links it to this
// session, so subsequent edits push to it. Repeated calls reuse the share
// created earlier.
func (c *Controller) Share(ctx context.Context) (*remote.CreatedShare, error) {
	c.mu.Lock()
	if c.readOnlyLocked() {
		c.mu.Unlock()
		return nil, fmt.Errorf("cannot share: %w", common.ErrorUnauthorized)
	}
	active := c.collection.Find(c.collection.ActiveListID)
	if active == nil {
		c.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	title := titleOrDefault(active.Title)
	places := models.ToPayloadPlaces(c.visiblePlacesLocked())
	c.mu.Unlock()

	share, err := c.remote.Create(ctx, title, places)
	if err != nil {
		c.notify(ctx, "Could not create a share link")
		return nil, err
	}

	c.mu.Lock()
	c.shareID = share.ID
	c.mu.Unlock()
	c.store.SaveShareID(ctx, share.ID)
	c.signal()
	return share, nil
}

// SubmitPassword retries the gated fetch with a user-supplied password. A
// wrong password returns common.ErrorPasswordRequired so the prompt can be
// retried; success materializes the document and leaves the gate.
func (c *Controller) SubmitPassword(ctx context.Context, password string) error {
	c.mu.Lock()
	if !c.gated {
		c.mu.Unlock()
		return nil
	}
	id := c.shareID
	c.mu.Unlock()

	doc, err := c.remote.Fetch(ctx, id, password)
	if err != nil {
		if !errors.Is(err, common.ErrorPasswordRequired) {
			c.notify(ctx, "Could not load the shared list")
		}
		return err
	}

	c.mu.Lock()
	c.gated = false
	c.password = password
	c.materializeRemoteLocked(doc)
	if !c.editable {
		c.startPollingLocked()
	}
	c.mu.Unlock()
	c.signal()
	return nil
}

// SetSharePassword gates the linked share. Explicit user action, so the
// error is surfaced.
func (c *Controller) SetSharePassword(ctx context.Context, password string) error {
	id := c.ShareID()
	if id == "" {
		return common.ErrorNotFound
	}
	return c.remote.SetPassword(ctx, id, password)
}

// ClearSharePassword removes the gate from the linked share.
func (c *Controller) ClearSharePassword(ctx context.Context) error {
	id := c.ShareID()
	if id == "" {
		return common.ErrorNotFound
	}
	return c.remote.ClearPassword(ctx, id)
}

// SharePasswordState reports whether the linked share is password-gated.
func (c *Controller) SharePasswordState(ctx context.Context) (bool, error) {
	id := c.ShareID()
	if id == "" {
		return false, common.ErrorNotFound
	}
	return c.remote.PasswordState(ctx, id)
}

// GrantEdit upgrades a read-only hosted view to editable with a signed edit
// capability. Polling stops immediately; from here on local edits push.
func (c *Controller) GrantEdit(token string) {
	c.remote.SetEditToken(token)
	c.mu.Lock()
	c.editable = true
	c.stopPollingLocked()
	c.mu.Unlock()
	c.signal()
}
