package models

import "time"

// PayloadPlace is the portable shape of a place: the fields that travel in
// stateless share links and in share-service bodies. Photos are deliberately
// omitted; payload size is the scarce resource. CreatedAt is unix
// milliseconds.
type PayloadPlace struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Note      string  `json:"note"`
	Address   string  `json:"address"`
	CreatedAt int64   `json:"createdAt"`
}

// SharePayload is the portable, server-independent serialization of a list.
type SharePayload struct {
	Title    string         `json:"title"`
	Places   []PayloadPlace `json:"places"`
	Editable bool           `json:"editable"`
}

// ToPayloadPlaces converts places to the portable shape, dropping entries
// with non-finite coordinates and stripping photo refs.
func ToPayloadPlaces(places []Place) []PayloadPlace {
	out := make([]PayloadPlace, 0, len(places))
	for _, p := range places {
		if !p.HasFiniteCoords() {
			continue
		}
		out = append(out, PayloadPlace{
			ID:        p.ID,
			Title:     p.Title,
			Lat:       p.Lat,
			Lng:       p.Lng,
			Note:      p.Note,
			Address:   p.Address,
			CreatedAt: p.CreatedAt.UnixMilli(),
		})
	}
	return out
}

// FromPayloadPlaces converts portable places back into full places. Ids are
// kept as-is; callers that materialize a payload into the local store assign
// fresh ids through the store.
func FromPayloadPlaces(places []PayloadPlace) []Place {
	out := make([]Place, 0, len(places))
	for _, p := range places {
		out = append(out, Place{
			ID:        p.ID,
			Title:     p.Title,
			Lat:       p.Lat,
			Lng:       p.Lng,
			Note:      p.Note,
			Address:   p.Address,
			CreatedAt: time.UnixMilli(p.CreatedAt),
		})
	}
	return out
}
