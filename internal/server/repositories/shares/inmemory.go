package shares

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/geolists/internal/common"
	pmodels "github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/models"
)

// InMemoryRepository keeps shares in a map. Used when no database DSN is
// configured and by tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	shares map[string]*models.Share
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{shares: make(map[string]*models.Share)}
}

func (r *InMemoryRepository) Create(ctx context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *share
	cp.Places = append([]pmodels.PayloadPlace{}, share.Places...)
	r.shares[share.ID] = &cp
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	share, ok := r.shares[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *share
	cp.Places = append([]pmodels.PayloadPlace{}, share.Places...)
	return &cp, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id, title string, places []pmodels.PayloadPlace, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.shares[id]
	if !ok {
		return common.ErrorNotFound
	}
	share.Title = title
	share.Places = append([]pmodels.PayloadPlace{}, places...)
	share.UpdatedAt = updatedAt
	return nil
}

func (r *InMemoryRepository) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.shares[id]
	if !ok {
		return common.ErrorNotFound
	}
	share.PasswordHash = hash
	return nil
}
