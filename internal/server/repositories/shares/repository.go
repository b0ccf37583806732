package shares

import (
	"context"
	"time"

	pmodels "github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/models"
)

// Repository is the persistence contract for hosted shares. Get returns
// common.ErrorNotFound for an unknown id; password checks are the service's
// concern, the repository stores and returns the hash opaquely.
type Repository interface {
	Create(ctx context.Context, share *models.Share) error
	Get(ctx context.Context, id string) (*models.Share, error)
	Update(ctx context.Context, id, title string, places []pmodels.PayloadPlace, updatedAt time.Time) error
	SetPasswordHash(ctx context.Context, id string, hash []byte) error
}
