// Package services contains server-side business logic. This file implements
// ShareService: publishing lists as hosted shares, gated reads, capability
// checked writes, and password management.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/geolists/internal/common"
	pmodels "github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/auth"
	"github.com/dmitrijs2005/geolists/internal/server/config"
	"github.com/dmitrijs2005/geolists/internal/server/models"
	"github.com/dmitrijs2005/geolists/internal/server/repositories/shares"
)

// CreatedShare is what a publish returns: the id, the two access URLs, and
// the signed edit capability embedded in the edit URL.
type CreatedShare struct {
	ID        string
	ViewURL   string
	EditURL   string
	EditToken string
}

// ShareDocument is a read view of a hosted share.
type ShareDocument struct {
	Title     string
	Places    []pmodels.PayloadPlace
	UpdatedAt time.Time
}

// ShareService provides share lifecycle operations:
// - Create: mint id, persist, issue edit capability
// - Fetch/Meta: password-gated reads
// - Update: capability-checked write
// - SetPassword/ClearPassword/PasswordState: password management
type ShareService struct {
	repo                      shares.Repository
	baseURL                   string
	secretKey                 []byte
	editTokenValidityDuration time.Duration
}

// NewShareService constructs a ShareService using a repository and server config.
func NewShareService(repo shares.Repository, cfg *config.Config) *ShareService {
	return &ShareService{
		repo:                      repo,
		baseURL:                   cfg.BaseURL,
		secretKey:                 []byte(cfg.SecretKey),
		editTokenValidityDuration: cfg.EditTokenValidityDuration,
	}
}

// Create persists a new hosted share and returns its access URLs. The edit
// URL carries a signed capability scoped to the new id; possession of that
// token is the only thing that grants write access later.
func (s *ShareService) Create(ctx context.Context, title string, places []pmodels.PayloadPlace) (*CreatedShare, error) {
	if title == "" {
		title = common.DefaultListTitle
	}

	id := uuid.NewString()

	token, err := auth.GenerateEditToken(id, s.secretKey, s.editTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	share := &models.Share{
		ID:        id,
		Title:     title,
		Places:    places,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, share); err != nil {
		return nil, fmt.Errorf("error creating share: %w", err)
	}

	return &CreatedShare{
		ID:        id,
		ViewURL:   fmt.Sprintf("%s/?share=%s", s.baseURL, id),
		EditURL:   fmt.Sprintf("%s/?share=%s&edit=%s", s.baseURL, id, token),
		EditToken: token,
	}, nil
}

// Fetch returns the share document. For a protected share a missing or wrong
// password yields common.ErrorPasswordRequired; an unknown id yields
// common.ErrorNotFound.
func (s *ShareService) Fetch(ctx context.Context, id, password string) (*ShareDocument, error) {
	share, err := s.getChecked(ctx, id, password)
	if err != nil {
		return nil, err
	}
	return &ShareDocument{
		Title:     share.Title,
		Places:    share.Places,
		UpdatedAt: share.UpdatedAt,
	}, nil
}

// Meta returns only the freshness timestamp, with the same gating as Fetch.
func (s *ShareService) Meta(ctx context.Context, id, password string) (time.Time, error) {
	share, err := s.getChecked(ctx, id, password)
	if err != nil {
		return time.Time{}, err
	}
	return share.UpdatedAt, nil
}

// Update replaces the hosted copy's title and places. The edit token must be
// valid and scoped to this share; anything else is common.ErrorUnauthorized.
func (s *ShareService) Update(ctx context.Context, id, editToken, title string, places []pmodels.PayloadPlace) error {
	if err := s.checkEditToken(id, editToken); err != nil {
		return err
	}
	if title == "" {
		title = common.DefaultListTitle
	}
	if err := s.repo.Update(ctx, id, title, places, time.Now().UTC()); err != nil {
		return fmt.Errorf("error updating share: %w", err)
	}
	return nil
}

// SetPassword gates the share behind a bcrypt-hashed password. Requires the
// edit capability.
func (s *ShareService) SetPassword(ctx context.Context, id, editToken, password string) error {
	if err := s.checkEditToken(id, editToken); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repo.SetPasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("error setting share password: %w", err)
	}
	return nil
}

// ClearPassword removes the gate. Requires the edit capability.
func (s *ShareService) ClearPassword(ctx context.Context, id, editToken string) error {
	if err := s.checkEditToken(id, editToken); err != nil {
		return err
	}
	if err := s.repo.SetPasswordHash(ctx, id, nil); err != nil {
		return fmt.Errorf("error clearing share password: %w", err)
	}
	return nil
}

// PasswordState reports whether the share is password protected. Existence
// of a gate is not a secret, so no capability is required.
func (s *ShareService) PasswordState(ctx context.Context, id string) (bool, error) {
	share, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, common.ErrorInternal
	}
	return share.Protected(), nil
}

// getChecked loads the share and enforces the password gate.
func (s *ShareService) getChecked(ctx context.Context, id, password string) (*models.Share, error) {
	share, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if share.Protected() {
		if password == "" || !auth.CheckPassword(share.PasswordHash, password) {
			return nil, common.ErrorPasswordRequired
		}
	}
	return share, nil
}

func (s *ShareService) checkEditToken(id, editToken string) error {
	shareID, err := auth.GetShareIDFromToken(editToken, s.secretKey)
	if err != nil || shareID != id {
		return common.ErrorUnauthorized
	}
	return nil
}
