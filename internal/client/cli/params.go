package cli

import (
	"flag"
	"os"

	gsync "github.com/dmitrijs2005/geolists/internal/client/sync"
	"github.com/dmitrijs2005/geolists/internal/flagx"
)

// parseParams reads the navigation parameters from command-line flags:
//
//	-share-id string     open a hosted share by id
//	-token string        open a stateless link payload token
//	-edit-token string   signed edit capability for -share-id
//
// The args are filtered to just these flags so config flags stay untouched.
func parseParams() gsync.Params {
	args := flagx.FilterArgs(os.Args[1:], []string{"-share-id", "-token", "-edit-token"})

	fs := flag.NewFlagSet("session", flag.ContinueOnError)
	shareID := fs.String("share-id", "", "hosted share id to open")
	token := fs.String("token", "", "stateless link payload token to open")
	editToken := fs.String("edit-token", "", "edit capability for the hosted share")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	return gsync.Params{
		ShareID:      *shareID,
		PayloadToken: *token,
		EditToken:    *editToken,
	}
}
