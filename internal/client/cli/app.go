package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/geolists/internal/client/config"
	"github.com/dmitrijs2005/geolists/internal/client/remote"
	"github.com/dmitrijs2005/geolists/internal/client/store"
	gsync "github.com/dmitrijs2005/geolists/internal/client/sync"
	"github.com/dmitrijs2005/geolists/internal/logging"
)

// App wires the local store, the share-service client, and the
// synchronization controller behind an interactive command loop.
type App struct {
	config *config.Config
	store  *store.Store
	db     *sql.DB
	ctl    *gsync.Controller
	log    logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var (
		st *store.Store
		db *sql.DB
	)
	repo, db, err := store.OpenRepository(ctx, cfg.DatabasePath)
	if err != nil {
		// A device without usable storage degrades to cache-only operation.
		log.Warn(ctx, "local database unavailable, running without durable storage", "error", err)
		st = store.New(nil, log)
	} else {
		st = store.New(repo, log)
	}

	rc := remote.NewClient(cfg.ServerBaseURL, log)
	ctl := gsync.New(st, rc, cfg, log)

	app := &App{
		config: cfg,
		store:  st,
		db:     db,
		ctl:    ctl,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	ctl.SetNotifier(app)
	return app, nil
}

// Notify implements the controller's user-notification capability.
func (a *App) Notify(_ context.Context, message string) {
	printlnFn(a.out, message)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.ctl.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	if err := a.ctl.Start(ctx, parseParams()); err != nil {
		a.log.Error(ctx, "session start failed", "error", err)
		return
	}

	a.Root(ctx)
}
