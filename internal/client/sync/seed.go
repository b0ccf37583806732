package sync

import (
	"time"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/models"
)

type seedPlace struct {
	title   string
	note    string
	address string
	lat     float64
	lng     float64
}

var onboardingPlaces = []seedPlace{
	{
		title:   "📌 This is your list",
		note:    "Here you collect places for yourself —\nin the order and format that works for you.",
		address: "New York",
		lat:     40.712728,
		lng:     -74.006015,
	},
	{
		title:   "➕ Add places",
		note:    "Save places to come back to them later\nor simply keep them at hand.",
		address: "Almaty",
		lat:     43.236392,
		lng:     76.945728,
	},
	{
		title:   "🗂 The list is whatever you want",
		note:    "It can be ideas, plans, notes,\na collection, or an archive.",
		address: "Tokyo",
		lat:     35.67686,
		lng:     139.763895,
	},
	{
		title:   "✏️ Name and notes",
		note:    "You can name the list\nand add notes to each place.",
		address: "Paris",
		lat:     48.856613,
		lng:     2.352222,
	},
	{
		title:   "🔗 Share the list",
		note:    "Send the link to anyone —\nview-only or with editing access.",
		address: "London",
		lat:     51.507446,
		lng:     -0.127765,
	},
	{
		title:   "🧠 Stored free",
		note:    "No registration.\nThe lists belong to you.\nSave the link to avoid losing it.",
		address: "Hong Kong",
		lat:     22.319303,
		lng:     114.169361,
	},
}

// onboardingList builds the starter list shown on a first run with an empty
// collection. It lives in memory only until the first real edit persists it.
func (c *Controller) onboardingList() models.List {
	now := c.now().UTC()
	places := make([]models.Place, 0, len(onboardingPlaces))
	for i, s := range onboardingPlaces {
		places = append(places, models.Place{
			ID:        c.store.CreateID(),
			Title:     s.title,
			Note:      s.note,
			Address:   s.address,
			Lat:       s.lat,
			Lng:       s.lng,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return models.List{
		ID:        c.store.CreateID(),
		Title:     common.DefaultListTitle,
		Places:    places,
		CreatedAt: now,
	}
}
