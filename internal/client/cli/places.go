package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/geolists/internal/models"
)

// displayPlaces returns the visible places in display order: newest first,
// without mutating the stored insertion order.
func (a *App) displayPlaces() []models.Place {
	return models.PlacesByNewest(a.ctl.VisiblePlaces())
}

// placeByIndex resolves a 1-based display index from command arguments.
func (a *App) placeByIndex(args []string) (models.Place, bool) {
	if len(args) == 0 {
		printlnFn(a.out, "Usage: command <number> (see 'list')")
		return models.Place{}, false
	}
	n, err := strconv.Atoi(args[0])
	places := a.displayPlaces()
	if err != nil || n < 1 || n > len(places) {
		printlnFn(a.out, "No such place:", args[0])
		return models.Place{}, false
	}
	return places[n-1], true
}

func (a *App) list(ctx context.Context) {
	places := a.displayPlaces()
	if len(places) == 0 {
		printlnFn(a.out, "No places yet. Use 'add' to create one.")
		return
	}
	for i, p := range places {
		line := fmt.Sprintf("%2d. %s  (%.5f, %.5f)", i+1, p.Title, p.Lat, p.Lng)
		if p.Address != "" {
			line += "  " + p.Address
		}
		printlnFn(a.out, line)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	p, ok := a.placeByIndex(args)
	if !ok {
		return
	}
	printlnFn(a.out, "Title:  ", p.Title)
	fmt.Fprintf(a.out, "Coords:  %.6f, %.6f\n", p.Lat, p.Lng)
	if p.Address != "" {
		printlnFn(a.out, "Address:", p.Address)
	}
	if p.Note != "" {
		printlnFn(a.out, "Note:   ", p.Note)
	}
	printlnFn(a.out, "Added:  ", p.CreatedAt.Format("2006-01-02 15:04"))
}

func (a *App) addPlace(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Place title", a.out)
	if err != nil {
		return
	}
	lat, ok := a.readCoord("Latitude")
	if !ok {
		return
	}
	lng, ok := a.readCoord("Longitude")
	if !ok {
		return
	}
	note, _ := GetSimpleText(a.reader, "Note (optional)", a.out)
	address, _ := GetSimpleText(a.reader, "Address (optional)", a.out)

	p, ok := a.ctl.AddPlace(ctx, models.Place{
		Title:   title,
		Lat:     lat,
		Lng:     lng,
		Note:    note,
		Address: address,
	})
	if !ok {
		printlnFn(a.out, "This list is read-only.")
		return
	}
	printlnFn(a.out, "Added:", p.Title)
}

func (a *App) editPlace(ctx context.Context, args []string) {
	p, ok := a.placeByIndex(args)
	if !ok {
		return
	}
	title, _ := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", p.Title), a.out)
	if title != "" {
		p.Title = title
	}
	note, _ := GetSimpleText(a.reader, fmt.Sprintf("Note [%s]", p.Note), a.out)
	if note != "" {
		p.Note = note
	}
	address, _ := GetSimpleText(a.reader, fmt.Sprintf("Address [%s]", p.Address), a.out)
	if address != "" {
		p.Address = address
	}
	if !a.ctl.UpdatePlace(ctx, p) {
		printlnFn(a.out, "This list is read-only.")
		return
	}
	printlnFn(a.out, "Updated:", p.Title)
}

func (a *App) deletePlace(ctx context.Context, args []string) {
	p, ok := a.placeByIndex(args)
	if !ok {
		return
	}
	if !a.ctl.DeletePlace(ctx, p.ID) {
		printlnFn(a.out, "This list is read-only.")
		return
	}
	printlnFn(a.out, fmt.Sprintf("%s deleted ('undo' to restore, 'save' to confirm)", p.Title))
}

func (a *App) undo(ctx context.Context) {
	if a.ctl.UndoDelete() {
		printlnFn(a.out, "Restored.")
		return
	}
	printlnFn(a.out, "Nothing to undo.")
}

func (a *App) renameActive(ctx context.Context, args []string) {
	title := joinArgs(args)
	if title == "" {
		var err error
		title, err = GetSimpleText(a.reader, "List title", a.out)
		if err != nil {
			return
		}
	}
	if !a.ctl.RenameActiveList(ctx, title) {
		printlnFn(a.out, "This list is read-only.")
	}
}

func (a *App) clearPlaces(ctx context.Context) {
	answer, err := GetSimpleText(a.reader, "Remove all saved places? (yes/no)", a.out)
	if err != nil || answer != "yes" {
		return
	}
	if !a.ctl.ClearPlaces(ctx) {
		printlnFn(a.out, "This list is read-only.")
	}
}

func (a *App) readCoord(prompt string) (float64, bool) {
	text, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		printlnFn(a.out, "Not a number:", text)
		return 0, false
	}
	return v, true
}
