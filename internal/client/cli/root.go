package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if active, ok := a.ctl.ActiveList(); ok {
		s = active.Title
	}
	if a.ctl.Gated() {
		s = "locked"
	} else if a.ctl.ReadOnly() {
		s = s + " (read-only)"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	printlnFn(a.out, "Welcome to GeoLists CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if a.ctl.Gated() {
		a.unlock(ctx)
	}

	for {
		fmt.Fprintf(a.out, "geo %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.ctl.Gated() {
				printlnFn(a.out, "Available commands: unlock, exit")
			} else if a.ctl.ReadOnly() {
				printlnFn(a.out, "Available commands: (l)ist, show, link, export, exit")
			} else {
				printlnFn(a.out, "Available commands: (l)ist, show, add, edit, del, undo, save, cancel, title, clear, lists, use, newlist, renamelist, dellist, movelist, share, link, password, export, exit")
			}

		case "unlock":
			a.unlock(ctx)
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "add":
			a.addPlace(ctx)
		case "edit":
			a.editPlace(ctx, args)
		case "del", "delete":
			a.deletePlace(ctx, args)
		case "undo":
			a.undo(ctx)
		case "save":
			a.ctl.ConfirmEdits(ctx)
			printlnFn(a.out, "Saved.")
		case "cancel":
			a.ctl.DiscardEdits()
			printlnFn(a.out, "Changes discarded.")
		case "title":
			a.renameActive(ctx, args)
		case "clear":
			a.clearPlaces(ctx)
		case "lists":
			a.lists(ctx)
		case "use":
			a.useList(ctx, args)
		case "newlist":
			a.newList(ctx)
		case "renamelist":
			a.renameList(ctx, args)
		case "dellist":
			a.deleteList(ctx, args)
		case "movelist":
			a.moveList(ctx, args)
		case "share":
			a.share(ctx)
		case "link":
			a.link(ctx, args)
		case "password":
			a.password(ctx, args)
		case "export":
			a.export(ctx, args)
		case "exit", "quit":
			printlnFn(a.out, "Bye!")
			return
		default:
			printlnFn(a.out, "Unknown command:", cmd)
		}
	}

}
