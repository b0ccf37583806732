// Package models defines the domain types shared by the GeoLists client,
// the payload codec, and the share service wire format.
package models

import (
	"math"
	"sort"
	"time"
)

// Place is a single geo-tagged record. Photos holds opaque blob keys; the
// bytes themselves live in object storage and never travel inside a list.
type Place struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Note      string    `json:"note,omitempty"`
	Address   string    `json:"address,omitempty"`
	Photos    []string  `json:"photos,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasFiniteCoords reports whether both coordinates are finite numbers.
// A place that fails this check is invalid and is excluded from portable
// encodings and wire bodies.
func (p Place) HasFiniteCoords() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PlacesByNewest returns a copy of places sorted newest-created first.
// Display order is derived; the stored insertion order is never mutated.
func PlacesByNewest(places []Place) []Place {
	out := make([]Place, len(places))
	copy(out, places)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
