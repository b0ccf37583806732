package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/geolists/internal/client/export"
	"github.com/dmitrijs2005/geolists/internal/common"
)

func (a *App) unlock(ctx context.Context) {
	if !a.ctl.Gated() {
		printlnFn(a.out, "This share is not locked.")
		return
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return
	}
	err = a.ctl.SubmitPassword(ctx, string(pw))
	switch {
	case errors.Is(err, common.ErrorPasswordRequired):
		printlnFn(a.out, "Wrong password, try 'unlock' again.")
	case err != nil:
		printlnFn(a.out, "Could not load the shared list.")
	default:
		printlnFn(a.out, "Unlocked.")
	}
}

func (a *App) share(ctx context.Context) {
	created, err := a.ctl.Share(ctx)
	if err != nil {
		printlnFn(a.out, "Could not create a share link.")
		return
	}
	printlnFn(a.out, "Share id: ", created.ID)
	printlnFn(a.out, "View URL: ", created.ViewURL)
	printlnFn(a.out, "Edit URL: ", created.EditURL)
}

func (a *App) link(ctx context.Context, args []string) {
	editable := len(args) > 0 && args[0] == "edit"
	if len(a.ctl.VisiblePlaces()) == 0 {
		printlnFn(a.out, "Add some places first.")
		return
	}
	printlnFn(a.out, a.ctl.EncodeLink(editable))
}

func (a *App) password(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn(a.out, "Usage: password set|clear|status")
		return
	}
	switch args[0] {
	case "set":
		pw, err := GetPassword(a.out)
		if err != nil {
			return
		}
		if err := a.ctl.SetSharePassword(ctx, string(pw)); err != nil {
			printlnFn(a.out, "Could not set the password:", err)
			return
		}
		printlnFn(a.out, "Password set.")
	case "clear":
		if err := a.ctl.ClearSharePassword(ctx); err != nil {
			printlnFn(a.out, "Could not clear the password:", err)
			return
		}
		printlnFn(a.out, "Password cleared.")
	case "status":
		set, err := a.ctl.SharePasswordState(ctx)
		if err != nil {
			printlnFn(a.out, "Could not check the password:", err)
			return
		}
		if set {
			printlnFn(a.out, "Password: set")
		} else {
			printlnFn(a.out, "Password: not set")
		}
	default:
		printlnFn(a.out, "Usage: password set|clear|status")
	}
}

func (a *App) export(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn(a.out, "Usage: export gpx|csv|kmz [file]")
		return
	}

	places := a.displayPlaces()
	if len(places) == 0 {
		printlnFn(a.out, "Add some places first.")
		return
	}
	title := common.DefaultListTitle
	if active, ok := a.ctl.ActiveList(); ok {
		title = active.Title
	}

	var (
		data []byte
		err  error
		name string
	)
	switch args[0] {
	case "gpx":
		data, err = export.GPX(title, places, time.Now())
		name = export.Filename(title, "gpx")
	case "csv":
		data, err = export.CSV(places)
		name = export.Filename(title, "csv")
	case "kmz":
		data, err = export.KMZ(title, places)
		name = export.Filename(title, "kmz")
	default:
		printlnFn(a.out, "Unknown format:", args[0])
		return
	}
	if err != nil {
		printlnFn(a.out, "Export failed:", err)
		return
	}
	if len(args) > 1 {
		name = args[1]
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		printlnFn(a.out, "Export failed:", err)
		return
	}
	printlnFn(a.out, "Written:", name)
}
