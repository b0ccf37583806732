package sync

import (
	"context"
	"time"

	"github.com/dmitrijs2005/geolists/internal/models"
)

const pushTimeout = 15 * time.Second

// AddPlace appends a place to the active list. Missing id and timestamp are
// assigned. Returns the stored place, or false in read-only mode.
func (c *Controller) AddPlace(ctx context.Context, p models.Place) (models.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return models.Place{}, false
	}
	if p.ID == "" {
		p.ID = c.store.CreateID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = c.now().UTC()
	}
	ok := c.updateActiveListLocked(ctx, func(list models.List) models.List {
		list.Places = append(append([]models.Place{}, list.Places...), p)
		return list
	})
	return p, ok
}

// UpdatePlace replaces the place with the same id in the active list.
func (c *Controller) UpdatePlace(ctx context.Context, p models.Place) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return false
	}
	found := false
	ok := c.updateActiveListLocked(ctx, func(list models.List) models.List {
		next := make([]models.Place, len(list.Places))
		copy(next, list.Places)
		for i := range next {
			if next[i].ID == p.ID {
				next[i] = p
				found = true
				break
			}
		}
		list.Places = next
		return list
	})
	return ok && found
}

// DeletePlace hides the place immediately but defers the durable rewrite
// until the edit session is confirmed. The deletion can be undone while the
// undo window is open.
func (c *Controller) DeletePlace(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return false
	}
	active := c.collection.Find(c.collection.ActiveListID)
	if active == nil {
		return false
	}
	if _, already := c.pendingDeleted[id]; already {
		return false
	}

	var deleted *models.Place
	for i := range active.Places {
		if active.Places[i].ID == id {
			cp := active.Places[i]
			deleted = &cp
			break
		}
	}
	if deleted == nil {
		return false
	}

	c.pendingDeleted[id] = struct{}{}
	c.lastDeleted = deleted
	c.undoDeadline = c.now().Add(c.undoWindow)
	if c.undoTimer != nil {
		c.undoTimer.Stop()
	}
	c.undoTimer = time.AfterFunc(c.undoWindow, c.expireUndo)

	c.signal()
	return true
}

func (c *Controller) expireUndo() {
	c.mu.Lock()
	if !c.now().Before(c.undoDeadline) {
		c.lastDeleted = nil
		c.undoTimer = nil
	}
	c.mu.Unlock()
	c.signal()
}

// LastDeleted returns the place whose deletion can still be undone.
func (c *Controller) LastDeleted() (models.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastDeleted == nil || c.now().After(c.undoDeadline) {
		return models.Place{}, false
	}
	return *c.lastDeleted, true
}

// UndoDelete restores the most recently deleted place while the undo window
// is open. The pending deletion stays revocable until ConfirmEdits.
func (c *Controller) UndoDelete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastDeleted == nil || c.now().After(c.undoDeadline) {
		return false
	}
	delete(c.pendingDeleted, c.lastDeleted.ID)
	c.lastDeleted = nil
	if c.undoTimer != nil {
		c.undoTimer.Stop()
		c.undoTimer = nil
	}
	c.signal()
	return true
}

// ConfirmEdits ends the edit session with save: pending deletions are
// applied to the stored list.
func (c *Controller) ConfirmEdits(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return
	}
	if len(c.pendingDeleted) > 0 {
		pending := c.pendingDeleted
		c.updateActiveListLocked(ctx, func(list models.List) models.List {
			next := make([]models.Place, 0, len(list.Places))
			for _, p := range list.Places {
				if _, deleted := pending[p.ID]; deleted {
					continue
				}
				next = append(next, p)
			}
			list.Places = next
			return list
		})
	}
	c.resetEditSessionLocked()
	c.signal()
}

// DiscardEdits ends the edit session without saving: pending deletions are
// dropped and the hidden places become visible again.
func (c *Controller) DiscardEdits() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetEditSessionLocked()
	c.signal()
}

func (c *Controller) resetEditSessionLocked() {
	c.pendingDeleted = make(map[string]struct{})
	c.lastDeleted = nil
	if c.undoTimer != nil {
		c.undoTimer.Stop()
		c.undoTimer = nil
	}
}

// RenameActiveList sets the active list's title, defaulting an empty input.
func (c *Controller) RenameActiveList(ctx context.Context, title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return false
	}
	return c.updateActiveListLocked(ctx, func(list models.List) models.List {
		list.Title = titleOrDefault(title)
		return list
	})
}

// ClearPlaces removes every place from the active list.
func (c *Controller) ClearPlaces(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnlyLocked() {
		return false
	}
	c.resetEditSessionLocked()
	return c.updateActiveListLocked(ctx, func(list models.List) models.List {
		list.Places = nil
		return list
	})
}

// updateActiveListLocked is the single mutation gate: it replaces the
// active list's value in the collection, persists (local origin only), and
// schedules a debounced push when a remote share is linked and editable.
// Callers hold c.mu.
func (c *Controller) updateActiveListLocked(ctx context.Context, mutate func(models.List) models.List) bool {
	active := c.collection.Find(c.collection.ActiveListID)
	if active == nil {
		return false
	}
	updated := mutate(*active)
	c.collection.Replace(updated)

	if c.origin == OriginLocal {
		c.store.SaveCollection(ctx, c.collection)
	}
	if c.canPushLocked() {
		c.schedulePushLocked()
	}
	c.signal()
	return true
}

func (c *Controller) canPushLocked() bool {
	if c.shareID == "" {
		return false
	}
	return c.origin == OriginLocal || (c.origin == OriginRemote && c.editable)
}

// schedulePushLocked coalesces bursts of edits: a new timer cancels the
// pending one, and the push that finally fires carries the collection state
// at that moment.
func (c *Controller) schedulePushLocked() {
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.debounce, func() {
		c.pushNow(context.Background())
	})
}

// pushNow sends the current active list to the linked share. Fire-and-forget:
// the remote client logs failures and the local copy stays authoritative.
func (c *Controller) pushNow(ctx context.Context) {
	c.mu.Lock()
	id := c.shareID
	active := c.collection.Find(c.collection.ActiveListID)
	if id == "" || active == nil {
		c.mu.Unlock()
		return
	}
	title := active.Title
	places := models.ToPayloadPlaces(active.Places)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	c.remote.Update(ctx, id, title, places)
}
