// Package store implements durable local persistence for the list
// collection and the active-list pointer.
//
// Two media are written: an in-process cache (the fast synchronous medium,
// always available, good for same-tick re-entrancy) and a SQLite database
// (the durable asynchronous medium). Reads prefer the cache; the async
// loader backfills it from SQLite. Async write failures are swallowed; the
// cache is the resilience fallback within a session, and a device without
// usable storage degrades to cache-only operation instead of erroring out
// of the public contract.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/geolists/internal/client/repositories/kv"
	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
)

// Logical storage keys. The flat places/title pair is the legacy
// single-list-per-device schema.
const (
	keyLegacyPlaces = "geolists:places"
	keyLegacyTitle  = "geolists:title"
	keyLists        = "geolists:lists"
	keyActiveList   = "geolists:active-list"
	keyMigrated     = "geolists:migrated"
	keyShareID      = "geolists:share-id"
)

const asyncWriteTimeout = 5 * time.Second

// Store is the client's local persistence facade. A nil repository means
// the durable medium is unavailable for this session.
//
// Durable writes are coalesced per key and drained by a single background
// writer, so the value that reaches SQLite for a key is always the most
// recently scheduled one.
type Store struct {
	repo kv.Repository
	log  logging.Logger

	mu      sync.Mutex
	cache   map[string]string
	pending map[string]string
	writing bool
	wg      sync.WaitGroup
}

func New(repo kv.Repository, log logging.Logger) *Store {
	return &Store{
		repo:    repo,
		log:     log,
		cache:   make(map[string]string),
		pending: make(map[string]string),
	}
}

// CreateID returns a fresh globally-unique id for a list or place.
func (s *Store) CreateID() string {
	return uuid.NewString()
}

// LoadCollection returns the collection from the fast medium. Best-effort:
// before LoadCollectionAsync has run in a fresh process the result may be
// empty even though durable data exists.
func (s *Store) LoadCollection() models.Collection {
	return models.Collection{
		Lists:        decodeLists(s.getFast(keyLists), s.log),
		ActiveListID: s.getFast(keyActiveList),
	}
}

// LoadCollectionAsync reads the durable medium, running the one-time legacy
// migration first, and backfills the fast medium for the next synchronous
// read. Storage failures degrade to whatever the cache holds.
func (s *Store) LoadCollectionAsync(ctx context.Context) models.Collection {
	if s.repo == nil {
		return s.LoadCollection()
	}

	s.migrate(ctx)

	if raw, err := s.repo.Get(ctx, keyLists); err == nil {
		s.putFast(keyLists, raw)
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.log.Warn(ctx, "reading collection from durable storage failed", "error", err)
	}
	if id, err := s.repo.Get(ctx, keyActiveList); err == nil {
		s.putFast(keyActiveList, id)
	}

	return s.LoadCollection()
}

// SaveCollection totally replaces the stored collection: the fast medium is
// written synchronously, the durable write is scheduled in the background.
func (s *Store) SaveCollection(ctx context.Context, c models.Collection) {
	raw, err := json.Marshal(c.Lists)
	if err != nil {
		s.log.Error(ctx, "encoding collection failed", "error", err)
		return
	}
	s.putFast(keyLists, string(raw))
	s.putFast(keyActiveList, c.ActiveListID)

	s.writeAsync(keyLists, string(raw))
	s.writeAsync(keyActiveList, c.ActiveListID)
}

// LoadActiveListID returns the active-list pointer from the fast medium.
func (s *Store) LoadActiveListID() string {
	return s.getFast(keyActiveList)
}

// SaveActiveListID persists the active-list pointer with the same
// dual-medium discipline as SaveCollection.
func (s *Store) SaveActiveListID(ctx context.Context, id string) {
	if id == "" {
		return
	}
	s.putFast(keyActiveList, id)
	s.writeAsync(keyActiveList, id)
}

// ShareID returns the remembered remote share id, if any.
func (s *Store) ShareID(ctx context.Context) string {
	if v := s.getFast(keyShareID); v != "" {
		return v
	}
	if s.repo == nil {
		return ""
	}
	v, err := s.repo.Get(ctx, keyShareID)
	if err != nil {
		return ""
	}
	s.putFast(keyShareID, v)
	return v
}

// SaveShareID remembers the remote share id for subsequent sessions.
func (s *Store) SaveShareID(ctx context.Context, id string) {
	if id == "" {
		return
	}
	s.putFast(keyShareID, id)
	s.writeAsync(keyShareID, id)
}

// Flush blocks until all scheduled durable writes have completed. Intended
// for process shutdown and for tests.
func (s *Store) Flush() {
	s.wg.Wait()
}

// migrate performs the one-time upgrade from the legacy flat schema
// (one places array + one title per device) to the multi-list schema. The
// completion marker is written only after the migration succeeded or was
// determined unnecessary, so a failed attempt is retried on the next load.
func (s *Store) migrate(ctx context.Context) {
	if _, err := s.repo.Get(ctx, keyMigrated); err == nil {
		return
	}

	// A collection already present means a previous attempt got as far as
	// writing the new schema; just seal it.
	if _, err := s.repo.Get(ctx, keyLists); err == nil {
		s.markMigrated(ctx)
		return
	}

	legacyRaw, err := s.repo.Get(ctx, keyLegacyPlaces)
	if errors.Is(err, common.ErrorNotFound) {
		// Fresh device, nothing to migrate.
		s.markMigrated(ctx)
		return
	}
	if err != nil {
		s.log.Warn(ctx, "legacy schema read failed, will retry migration", "error", err)
		return
	}

	title := common.DefaultListTitle
	if v, err := s.repo.Get(ctx, keyLegacyTitle); err == nil && v != "" {
		title = v
	}

	list := models.List{
		ID:        s.CreateID(),
		Title:     title,
		Places:    decodePlaces(legacyRaw, s.log),
		CreatedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal([]models.List{list})
	if err != nil {
		s.log.Error(ctx, "encoding migrated collection failed", "error", err)
		return
	}
	if err := s.repo.Set(ctx, keyLists, string(raw)); err != nil {
		s.log.Warn(ctx, "writing migrated collection failed, will retry", "error", err)
		return
	}
	if err := s.repo.Set(ctx, keyActiveList, list.ID); err != nil {
		s.log.Warn(ctx, "writing active-list pointer failed, will retry", "error", err)
		return
	}
	s.markMigrated(ctx)
	s.log.Info(ctx, "migrated legacy list schema", "places", len(list.Places))
}

func (s *Store) markMigrated(ctx context.Context) {
	if err := s.repo.Set(ctx, keyMigrated, "1"); err != nil {
		s.log.Warn(ctx, "writing migration marker failed", "error", err)
	}
}

func (s *Store) getFast(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[key]
}

func (s *Store) putFast(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = value
}

// writeAsync schedules a durable write. The value replaces any pending
// write for the same key, and at most one writer goroutine drains the
// pending set, so per-key writes reach the repository newest-last.
func (s *Store) writeAsync(key, value string) {
	if s.repo == nil {
		return
	}
	s.mu.Lock()
	s.pending[key] = value
	if s.writing {
		s.mu.Unlock()
		return
	}
	s.writing = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.drainPending()
}

func (s *Store) drainPending() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		var key, value string
		found := false
		for k, v := range s.pending {
			key, value, found = k, v, true
			break
		}
		if !found {
			s.writing = false
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		if err := s.repo.Set(ctx, key, value); err != nil {
			s.log.Warn(ctx, "durable write failed", "key", key, "error", err)
		}
		cancel()
	}
}

func decodeLists(raw string, log logging.Logger) []models.List {
	if raw == "" {
		return nil
	}
	var lists []models.List
	if err := json.Unmarshal([]byte(raw), &lists); err != nil {
		log.Warn(context.Background(), "failed to parse saved lists", "error", err)
		return nil
	}
	return lists
}

func decodePlaces(raw string, log logging.Logger) []models.Place {
	if raw == "" {
		return nil
	}
	var places []models.Place
	if err := json.Unmarshal([]byte(raw), &places); err != nil {
		log.Warn(context.Background(), "failed to parse saved places", "error", err)
		return nil
	}
	return places
}
