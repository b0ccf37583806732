package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geolists/internal/client/config"
	"github.com/dmitrijs2005/geolists/internal/client/remote"
	"github.com/dmitrijs2005/geolists/internal/client/store"
	gsync "github.com/dmitrijs2005/geolists/internal/client/sync"
	"github.com/dmitrijs2005/geolists/internal/logging"
	"github.com/dmitrijs2005/geolists/internal/models"
)

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{
		PollInterval:     time.Minute,
		DebounceInterval: time.Minute,
		UndoWindow:       10 * time.Second,
	}
	st := store.New(nil, log)
	ctl := gsync.New(st, remote.NewClient("http://127.0.0.1:1", log), cfg, log)
	require.NoError(t, ctl.Start(context.Background(), gsync.Params{}))

	out := &bytes.Buffer{}
	app := &App{
		config: cfg,
		store:  st,
		ctl:    ctl,
		log:    log,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}
	return app, out
}

func TestList_ShowsNewestFirst(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.True(t, app.ctl.ClearPlaces(ctx))
	old := models.Place{Title: "Old", Lat: 1, Lng: 1, CreatedAt: time.Now().Add(-time.Hour)}
	fresh := models.Place{Title: "Fresh", Lat: 2, Lng: 2, CreatedAt: time.Now()}
	_, ok := app.ctl.AddPlace(ctx, old)
	require.True(t, ok)
	_, ok = app.ctl.AddPlace(ctx, fresh)
	require.True(t, ok)

	app.list(ctx)
	text := out.String()
	assert.Less(t, strings.Index(text, "Fresh"), strings.Index(text, "Old"))
}

func TestPlaceByIndex(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")
	require.True(t, app.ctl.ClearPlaces(ctx))
	p, ok := app.ctl.AddPlace(ctx, models.Place{Title: "Only", Lat: 1, Lng: 2})
	require.True(t, ok)

	got, ok := app.placeByIndex([]string{"1"})
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	_, ok = app.placeByIndex([]string{"2"})
	assert.False(t, ok)
	assert.Contains(t, out.String(), "No such place")

	_, ok = app.placeByIndex(nil)
	assert.False(t, ok)
}

func TestAddPlace_FromPrompts(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "Cafe\n43.2389\n76.945\ncoffee\nAlmaty\n")
	require.True(t, app.ctl.ClearPlaces(ctx))

	app.addPlace(ctx)
	assert.Contains(t, out.String(), "Added: Cafe")

	places := app.ctl.VisiblePlaces()
	require.Len(t, places, 1)
	assert.Equal(t, "Cafe", places[0].Title)
	assert.Equal(t, 43.2389, places[0].Lat)
	assert.Equal(t, "Almaty", places[0].Address)
}

func TestAddPlace_RejectsBadCoordinate(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "Cafe\nnot-a-number\n")
	require.True(t, app.ctl.ClearPlaces(ctx))

	app.addPlace(ctx)
	assert.Contains(t, out.String(), "Not a number")
	assert.Empty(t, app.ctl.VisiblePlaces())
}

func TestDeleteUndoFlow(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")
	require.True(t, app.ctl.ClearPlaces(ctx))
	_, ok := app.ctl.AddPlace(ctx, models.Place{Title: "Doomed", Lat: 1, Lng: 2})
	require.True(t, ok)

	app.deletePlace(ctx, []string{"1"})
	assert.Contains(t, out.String(), "Doomed deleted")
	assert.Empty(t, app.displayPlaces())

	app.undo(ctx)
	assert.Contains(t, out.String(), "Restored.")
	assert.Len(t, app.displayPlaces(), 1)

	app.undo(ctx)
	assert.Contains(t, out.String(), "Nothing to undo.")
}

func TestExportCommand_WritesFile(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	dir := t.TempDir()
	target := filepath.Join(dir, "trip.gpx")
	app.export(ctx, []string{"gpx", target})

	assert.Contains(t, out.String(), "Written:")
	assert.FileExists(t, target)
}

func TestGetSimpleText(t *testing.T) {
	out := &bytes.Buffer{}
	r := bufio.NewReader(strings.NewReader("  hello \n"))
	got, err := GetSimpleText(r, "Say something", out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	out := &bytes.Buffer{}
	r := bufio.NewReader(strings.NewReader("partial"))
	got, err := GetSimpleText(r, "Prompt", out)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}
