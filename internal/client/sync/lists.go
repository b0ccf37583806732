package sync

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/geolists/internal/models"
)

// SelectList makes an existing list the active one. Disallowed while
// viewing a share (stateless or hosted).
func (c *Controller) SelectList(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() || c.origin == OriginRemote {
		return false
	}
	if c.collection.Find(id) == nil {
		return false
	}
	c.collection.ActiveListID = id
	c.store.SaveActiveListID(ctx, id)
	c.resetEditSessionLocked()
	c.signal()
	return true
}

// CreateList adds an empty list with a generated name. Outside draft mode
// it becomes the active list immediately; in draft mode it only joins the
// drafts and takes effect on EndListEdit(persist).
func (c *Controller) CreateList(ctx context.Context) (models.List, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() || c.origin == OriginRemote {
		return models.List{}, false
	}

	source := c.collection.Lists
	if c.draftMode {
		source = c.drafts
	}
	list := models.List{
		ID:        c.store.CreateID(),
		Title:     fmt.Sprintf("New map %d", len(source)+1),
		CreatedAt: c.now().UTC(),
	}

	if c.draftMode {
		c.drafts = append([]models.List{list}, c.drafts...)
	} else {
		c.collection.Lists = append([]models.List{list}, c.collection.Lists...)
		c.collection.ActiveListID = list.ID
		c.store.SaveCollection(ctx, c.collection)
		c.resetEditSessionLocked()
	}
	c.signal()
	return list, true
}

// BeginListEdit opens a draft copy of the collection for the management
// view. Rename, delete, and reorder operate on the drafts; nothing touches
// the stored collection until EndListEdit(persist).
func (c *Controller) BeginListEdit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() || c.origin == OriginRemote || c.draftMode {
		return false
	}
	c.drafts = make([]models.List, len(c.collection.Lists))
	copy(c.drafts, c.collection.Lists)
	c.draftMode = true
	c.signal()
	return true
}

// Drafts returns the draft lists, or nil outside draft mode.
func (c *Controller) Drafts() []models.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draftMode {
		return nil
	}
	out := make([]models.List, len(c.drafts))
	copy(out, c.drafts)
	return out
}

// RenameDraft sets a draft list's title.
func (c *Controller) RenameDraft(id, title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draftMode {
		return false
	}
	for i := range c.drafts {
		if c.drafts[i].ID == id {
			c.drafts[i].Title = title
			c.signal()
			return true
		}
	}
	return false
}

// DeleteDraft removes a list from the drafts.
func (c *Controller) DeleteDraft(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draftMode {
		return false
	}
	for i := range c.drafts {
		if c.drafts[i].ID == id {
			c.drafts = append(c.drafts[:i:i], c.drafts[i+1:]...)
			c.signal()
			return true
		}
	}
	return false
}

// MoveDraft reorders the drafts by moving fromID to toID's position.
func (c *Controller) MoveDraft(fromID, toID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draftMode || fromID == toID {
		return false
	}
	from, to := -1, -1
	for i := range c.drafts {
		switch c.drafts[i].ID {
		case fromID:
			from = i
		case toID:
			to = i
		}
	}
	if from == -1 || to == -1 {
		return false
	}
	moved := c.drafts[from]
	rest := append(c.drafts[:from:from], c.drafts[from+1:]...)
	c.drafts = append(rest[:to:to], append([]models.List{moved}, rest[to:]...)...)
	c.signal()
	return true
}

// EndListEdit leaves draft mode. With persist the drafts replace the stored
// collection and a dangling active pointer is repaired; without it the
// drafts are discarded.
func (c *Controller) EndListEdit(ctx context.Context, persist bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draftMode {
		return
	}
	if persist && !c.readOnlyLocked() {
		c.collection.Lists = c.drafts
		c.collection.Repair()
		c.store.SaveCollection(ctx, c.collection)
		c.resetEditSessionLocked()
	}
	c.drafts = nil
	c.draftMode = false
	c.signal()
}
