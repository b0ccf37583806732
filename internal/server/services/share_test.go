package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geolists/internal/common"
	pmodels "github.com/dmitrijs2005/geolists/internal/models"
	"github.com/dmitrijs2005/geolists/internal/server/config"
	"github.com/dmitrijs2005/geolists/internal/server/models"
	"github.com/dmitrijs2005/geolists/internal/server/repositories/shares"
)

func newShareService() *ShareService {
	cfg := &config.Config{
		BaseURL:                   "http://maps.example.com",
		SecretKey:                 "test-secret",
		EditTokenValidityDuration: time.Hour,
	}
	return NewShareService(shares.NewInMemoryRepository(), cfg)
}

func somePlaces() []pmodels.PayloadPlace {
	return []pmodels.PayloadPlace{
		{ID: "p0", Title: "Cafe", Lat: 43.2389, Lng: 76.945, Note: "espresso"},
		{ID: "p1", Title: "Park", Lat: 43.25, Lng: 76.95},
	}
}

func TestShareCreate_ReturnsURLsAndToken(t *testing.T) {
	svc := newShareService()

	created, err := svc.Create(context.Background(), "Trip", somePlaces())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	assert.Equal(t, "http://maps.example.com/?share="+created.ID, created.ViewURL)
	assert.True(t, strings.HasPrefix(created.EditURL, created.ViewURL+"&edit="))
	assert.NotEmpty(t, created.EditToken)

	doc, err := svc.Fetch(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Trip", doc.Title)
	assert.Len(t, doc.Places, 2)
}

func TestShareCreate_EmptyTitleGetsDefault(t *testing.T) {
	svc := newShareService()

	created, err := svc.Create(context.Background(), "", nil)
	require.NoError(t, err)

	doc, err := svc.Fetch(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, common.DefaultListTitle, doc.Title)
}

func TestShareFetch_UnknownID(t *testing.T) {
	svc := newShareService()

	_, err := svc.Fetch(context.Background(), "missing", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.Meta(context.Background(), "missing", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestShareUpdate_RequiresMatchingToken(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Trip", somePlaces())
	require.NoError(t, err)

	other, err := svc.Create(ctx, "Other", nil)
	require.NoError(t, err)

	// Valid capability scoped to a different share.
	err = svc.Update(ctx, created.ID, other.EditToken, "Hacked", nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = svc.Update(ctx, created.ID, "garbage", "Hacked", nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = svc.Update(ctx, created.ID, created.EditToken, "Renamed", somePlaces()[:1])
	require.NoError(t, err)

	doc, err := svc.Fetch(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", doc.Title)
	assert.Len(t, doc.Places, 1)
}

func TestShareUpdate_BumpsUpdatedAt(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Trip", nil)
	require.NoError(t, err)

	before, err := svc.Meta(ctx, created.ID, "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.Update(ctx, created.ID, created.EditToken, "Trip", somePlaces()))

	after, err := svc.Meta(ctx, created.ID, "")
	require.NoError(t, err)
	assert.True(t, after.After(before))
}

func TestSharePasswordGate(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Trip", somePlaces())
	require.NoError(t, err)

	has, err := svc.PasswordState(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, svc.SetPassword(ctx, created.ID, created.EditToken, "hunter2"))

	has, err = svc.PasswordState(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = svc.Fetch(ctx, created.ID, "")
	assert.ErrorIs(t, err, common.ErrorPasswordRequired)

	_, err = svc.Fetch(ctx, created.ID, "wrong")
	assert.ErrorIs(t, err, common.ErrorPasswordRequired)

	doc, err := svc.Fetch(ctx, created.ID, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Trip", doc.Title)

	_, err = svc.Meta(ctx, created.ID, "")
	assert.ErrorIs(t, err, common.ErrorPasswordRequired)

	require.NoError(t, svc.ClearPassword(ctx, created.ID, created.EditToken))

	_, err = svc.Fetch(ctx, created.ID, "")
	require.NoError(t, err)
}

func TestSharePassword_RequiresCapability(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Trip", nil)
	require.NoError(t, err)

	err = svc.SetPassword(ctx, created.ID, "garbage", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = svc.ClearPassword(ctx, created.ID, "garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

type failingRepo struct {
	shares.Repository
}

func (f *failingRepo) Get(ctx context.Context, id string) (*models.Share, error) {
	return nil, errors.New("db down")
}

func TestShareFetch_RepositoryFailureIsInternal(t *testing.T) {
	cfg := &config.Config{BaseURL: "http://x", SecretKey: "k", EditTokenValidityDuration: time.Hour}
	svc := NewShareService(&failingRepo{}, cfg)

	_, err := svc.Fetch(context.Background(), "any", "")
	assert.ErrorIs(t, err, common.ErrorInternal)

	_, err = svc.PasswordState(context.Background(), "any")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
