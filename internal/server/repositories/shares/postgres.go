// Package shares provides the PostgreSQL-backed and in-memory repositories
// for hosted share persistence.
package shares

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/dbx"
	pmodels "github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/models"
)

// PostgresRepository implements share storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, share *models.Share) error {
	places, err := json.Marshal(share.Places)
	if err != nil {
		return fmt.Errorf("encoding places failed: %w", err)
	}

	query := `
		INSERT INTO shares (id, title, places, password_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := r.db.ExecContext(ctx, query,
		share.ID, share.Title, places, share.PasswordHash, share.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Share, error) {
	query := `SELECT id, title, places, password_hash, updated_at FROM shares WHERE id=$1`

	var (
		share  models.Share
		places []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&share.ID, &share.Title, &places, &share.PasswordHash, &share.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(places, &share.Places); err != nil {
		return nil, fmt.Errorf("decoding places failed: %w", err)
	}
	return &share, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, title string, places []pmodels.PayloadPlace, updatedAt time.Time) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("encoding places failed: %w", err)
	}

	query := `UPDATE shares SET title=$2, places=$3, updated_at=$4 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, id, title, raw, updatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	query := `UPDATE shares SET password_hash=$2 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
