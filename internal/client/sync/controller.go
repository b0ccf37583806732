// Package sync implements the list synchronization controller: it resolves
// which list is active for a session given the possible origins (local
// collection, a stateless payload token, a hosted share id), applies local
// mutations through a single update gate, pushes them to a linked remote
// copy after a debounce quiet period, and observes remote changes while
// viewing read-only.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/geolists/internal/client/config"
	"github.com/dmitrijs2005/geolists/internal/client/remote"
	"github.com/dmitrijs2005/geolists/internal/client/store"
	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/sharecode"
)

// Origin says where the active list came from this session.
type Origin int

const (
	// OriginLocal is the device's own collection.
	OriginLocal Origin = iota
	// OriginPayload is a read-only list decoded from a stateless link token.
	OriginPayload
	// OriginRemote is a hosted share addressed by id.
	OriginRemote
)

// Params are the navigation parameters a session starts from.
type Params struct {
	// ShareID addresses a hosted share. Takes priority over PayloadToken.
	ShareID string
	// PayloadToken is an embedded stateless list payload.
	PayloadToken string
	// EditToken is the signed edit capability for ShareID. Empty means
	// view-only.
	EditToken string
}

// Notifier is an optional user-notification capability. Absence is a valid,
// silently-ignored state.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Controller owns the in-memory collection and the active-list pointer for
// one session. It is the single writer; renderers and exporters are readers
// that resynchronize on the Changes signal.
type Controller struct {
	store    *store.Store
	remote   *remote.Client
	log      logging.Logger
	notifier Notifier

	debounce     time.Duration
	undoWindow   time.Duration
	pollInterval time.Duration

	mu         sync.Mutex
	collection models.Collection
	origin     Origin
	editable   bool
	gated      bool
	shareID    string
	password   string
	lastSeen   time.Time

	pendingDeleted map[string]struct{}
	lastDeleted    *models.Place
	undoDeadline   time.Time
	undoTimer      *time.Timer

	drafts    []models.List
	draftMode bool

	debounceTimer *time.Timer
	pollStop      chan struct{}
	pollInFlight  bool

	changes chan struct{}
	now     func() time.Time
}

func New(st *store.Store, rc *remote.Client, cfg *config.Config, log logging.Logger) *Controller {
	return &Controller{
		store:          st,
		remote:         rc,
		log:            log,
		debounce:       cfg.DebounceInterval,
		undoWindow:     cfg.UndoWindow,
		pollInterval:   cfg.PollInterval,
		pendingDeleted: make(map[string]struct{}),
		changes:        make(chan struct{}, 1),
		now:            time.Now,
	}
}

// SetNotifier installs the optional user-notification capability.
func (c *Controller) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Start resolves the active list for this session. Priority: an explicit
// share id, then an embedded payload token, then the local collection. A
// decode failure on the payload token falls through to local resolution.
func (c *Controller) Start(ctx context.Context, params Params) error {
	if params.ShareID != "" {
		return c.startRemote(ctx, params)
	}
	if params.PayloadToken != "" && c.startFromPayload(ctx, params.PayloadToken) {
		return nil
	}
	return c.startLocal(ctx)
}

func (c *Controller) startRemote(ctx context.Context, params Params) error {
	c.mu.Lock()
	c.origin = OriginRemote
	c.shareID = params.ShareID
	c.editable = params.EditToken != ""
	c.mu.Unlock()

	if params.EditToken != "" {
		c.remote.SetEditToken(params.EditToken)
	}

	doc, err := c.remote.Fetch(ctx, params.ShareID, "")
	if errors.Is(err, common.ErrorPasswordRequired) {
		c.mu.Lock()
		c.gated = true
		c.mu.Unlock()
		c.signal()
		return nil
	}

	c.mu.Lock()
	if err != nil {
		c.log.Warn(ctx, "remote share load failed", "share_id", params.ShareID, "error", err)
		c.materializeRemoteLocked(&remote.Document{})
		c.mu.Unlock()
		c.notify(ctx, "Could not load the shared list")
	} else {
		c.materializeRemoteLocked(doc)
		if !c.editable {
			c.startPollingLocked()
		}
		c.mu.Unlock()
	}
	c.signal()
	return nil
}

func (c *Controller) startFromPayload(ctx context.Context, token string) bool {
	payload, err := sharecode.Decode(token)
	if err != nil {
		c.log.Debug(ctx, "payload token decode failed", "error", err)
		return false
	}

	if payload.Editable {
		c.adoptPayload(ctx, token, payload)
		return true
	}

	list := models.List{
		ID:        "shared",
		Title:     titleOrDefault(payload.Title),
		Places:    models.FromPayloadPlaces(payload.Places),
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.origin = OriginPayload
	c.collection = models.Collection{Lists: []models.List{list}, ActiveListID: list.ID}
	c.mu.Unlock()
	c.signal()
	return true
}

// adoptPayload folds an editable stateless payload into the local
// collection under an id derived from the token, so opening the same link
// twice lands on the same list instead of duplicating it.
func (c *Controller) adoptPayload(ctx context.Context, token string, payload *models.SharePayload) {
	col := c.store.LoadCollectionAsync(ctx)
	id := hashShareParam(token)

	if col.Find(id) == nil {
		list := models.List{
			ID:        id,
			Title:     titleOrDefault(payload.Title),
			Places:    models.FromPayloadPlaces(payload.Places),
			CreatedAt: c.now(),
		}
		col.Lists = append([]models.List{list}, col.Lists...)
	}
	col.ActiveListID = id
	c.store.SaveCollection(ctx, col)

	c.mu.Lock()
	c.origin = OriginLocal
	c.collection = col
	c.mu.Unlock()
	c.signal()
}

func (c *Controller) startLocal(ctx context.Context) error {
	col := c.store.LoadCollectionAsync(ctx)

	seeded := false
	if len(col.Lists) == 0 {
		col.Lists = []models.List{c.onboardingList()}
		col.ActiveListID = col.Lists[0].ID
		seeded = true
	}
	if col.Repair() && !seeded {
		c.store.SaveActiveListID(ctx, col.ActiveListID)
	}

	c.mu.Lock()
	c.origin = OriginLocal
	c.collection = col
	c.shareID = c.store.ShareID(ctx)
	c.mu.Unlock()
	c.signal()
	return nil
}

func (c *Controller) materializeRemoteLocked(doc *remote.Document) {
	created := doc.UpdatedAt
	if created.IsZero() {
		created = c.now()
	}
	list := models.List{
		ID:        c.shareID,
		Title:     titleOrDefault(doc.Title),
		Places:    models.FromPayloadPlaces(doc.Places),
		CreatedAt: created,
	}
	c.collection = models.Collection{Lists: []models.List{list}, ActiveListID: list.ID}
	c.lastSeen = doc.UpdatedAt
	c.pendingDeleted = make(map[string]struct{})
	c.lastDeleted = nil
}

// Changes delivers a coalesced signal whenever observable state changed and
// readers should resynchronize.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

func (c *Controller) signal() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) notify(ctx context.Context, message string) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	if n != nil {
		n.Notify(ctx, message)
	}
}

// ReadOnly reports whether local mutations are disallowed this session.
func (c *Controller) ReadOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnlyLocked()
}

func (c *Controller) readOnlyLocked() bool {
	switch c.origin {
	case OriginPayload:
		return true
	case OriginRemote:
		return !c.editable
	default:
		return false
	}
}

// Gated reports whether the session is in the password-gate state: a
// hosted share required a password and no list is materialized yet.
func (c *Controller) Gated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gated
}

// Origin reports where the active list came from.
func (c *Controller) Origin() Origin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.origin
}

// ShareID returns the hosted share linked to this session, if any.
func (c *Controller) ShareID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shareID
}

// ActiveList returns a snapshot of the active list. ok is false in the
// password-gate state or when the collection is empty.
func (c *Controller) ActiveList() (models.List, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	active := c.collection.Find(c.collection.ActiveListID)
	if active == nil {
		return models.List{}, false
	}
	return *active, true
}

// VisiblePlaces returns the active list's places minus pending deletions,
// in stored order.
func (c *Controller) VisiblePlaces() []models.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visiblePlacesLocked()
}

func (c *Controller) visiblePlacesLocked() []models.Place {
	active := c.collection.Find(c.collection.ActiveListID)
	if active == nil {
		return nil
	}
	out := make([]models.Place, 0, len(active.Places))
	for _, p := range active.Places {
		if _, deleted := c.pendingDeleted[p.ID]; deleted {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Collection returns a snapshot of the whole collection.
func (c *Controller) Collection() models.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	lists := make([]models.List, len(c.collection.Lists))
	copy(lists, c.collection.Lists)
	return models.Collection{Lists: lists, ActiveListID: c.collection.ActiveListID}
}

// Close stops timers and polling, flushes a pending remote push, and waits
// for scheduled durable writes.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	pending := c.debounceTimer != nil && c.debounceTimer.Stop()
	c.debounceTimer = nil
	if c.undoTimer != nil {
		c.undoTimer.Stop()
		c.undoTimer = nil
	}
	c.stopPollingLocked()
	c.mu.Unlock()

	if pending {
		c.pushNow(ctx)
	}
	c.store.Flush()
}

func titleOrDefault(title string) string {
	if title == "" {
		return common.DefaultListTitle
	}
	return title
}

// hashShareParam derives a stable local list id from a payload token, so an
// editable link adopted twice maps to one list.
func hashShareParam(value string) string {
	var hash int32
	for _, b := range []byte(value) {
		hash = hash<<5 - hash + int32(b)
	}
	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("shared-%d", v)
}
