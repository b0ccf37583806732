// Package export turns a title and a flat sequence of places into the
// interchange formats offered by the UI: GPX waypoints, CSV rows, and a KMZ
// archive. It consumes the stable data contract only and holds no state.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// Filename derives a safe download filename from the list title.
func Filename(title, ext string) string {
	cleaned := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(title), ""))
	if cleaned == "" {
		cleaned = common.DefaultListTitle
	}
	return cleaned + "." + ext
}

// description builds the waypoint description shared by GPX and KML: the
// note followed by the address, with a "lat, lng" fallback when the place
// has no address.
func description(p models.Place) string {
	address := p.Address
	if address == "" {
		address = fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
	}
	if p.Note == "" {
		return address
	}
	return p.Note + "\n" + address
}

func titleOrDefault(title string) string {
	if title == "" {
		return common.DefaultListTitle
	}
	return title
}

func placeName(p models.Place) string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}
