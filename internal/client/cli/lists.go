package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/geolists/internal/models"
)

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func (a *App) lists(ctx context.Context) {
	col := a.ctl.Collection()
	if len(col.Lists) == 0 {
		printlnFn(a.out, "No lists.")
		return
	}
	for i, l := range col.Lists {
		marker := "  "
		if l.ID == col.ActiveListID {
			marker = "* "
		}
		count := len(l.Places)
		noun := "points"
		if count == 1 {
			noun = "point"
		}
		printlnFn(a.out, fmt.Sprintf("%s%2d. %s (%d %s)", marker, i+1, l.Title, count, noun))
	}
}

// listByIndex resolves a 1-based index into the collection order shown by
// the lists command.
func (a *App) listByIndex(arg string) (models.List, bool) {
	n, err := strconv.Atoi(arg)
	col := a.ctl.Collection()
	if err != nil || n < 1 || n > len(col.Lists) {
		printlnFn(a.out, "No such list:", arg)
		return models.List{}, false
	}
	return col.Lists[n-1], true
}

func (a *App) useList(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn(a.out, "Usage: use <number>")
		return
	}
	l, ok := a.listByIndex(args[0])
	if !ok {
		return
	}
	if !a.ctl.SelectList(ctx, l.ID) {
		printlnFn(a.out, "Cannot switch lists in this mode.")
		return
	}
	printlnFn(a.out, "Now using:", l.Title)
}

func (a *App) newList(ctx context.Context) {
	l, ok := a.ctl.CreateList(ctx)
	if !ok {
		printlnFn(a.out, "Cannot create lists in this mode.")
		return
	}
	printlnFn(a.out, "Created:", l.Title)
}

func (a *App) renameList(ctx context.Context, args []string) {
	if len(args) < 2 {
		printlnFn(a.out, "Usage: renamelist <number> <title>")
		return
	}
	l, ok := a.listByIndex(args[0])
	if !ok {
		return
	}
	if !a.ctl.BeginListEdit() {
		printlnFn(a.out, "Cannot edit lists in this mode.")
		return
	}
	a.ctl.RenameDraft(l.ID, joinArgs(args[1:]))
	a.ctl.EndListEdit(ctx, true)
}

func (a *App) deleteList(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn(a.out, "Usage: dellist <number>")
		return
	}
	l, ok := a.listByIndex(args[0])
	if !ok {
		return
	}
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete list %q? (yes/no)", l.Title), a.out)
	if err != nil || answer != "yes" {
		return
	}
	if !a.ctl.BeginListEdit() {
		printlnFn(a.out, "Cannot edit lists in this mode.")
		return
	}
	a.ctl.DeleteDraft(l.ID)
	a.ctl.EndListEdit(ctx, true)
	printlnFn(a.out, "Deleted:", l.Title)
}

func (a *App) moveList(ctx context.Context, args []string) {
	if len(args) < 2 {
		printlnFn(a.out, "Usage: movelist <from> <to>")
		return
	}
	from, ok := a.listByIndex(args[0])
	if !ok {
		return
	}
	to, ok := a.listByIndex(args[1])
	if !ok {
		return
	}
	if !a.ctl.BeginListEdit() {
		printlnFn(a.out, "Cannot edit lists in this mode.")
		return
	}
	a.ctl.MoveDraft(from.ID, to.ID)
	a.ctl.EndListEdit(ctx, true)
}
