package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/geolists/internal/models"
)

// CSV renders the places as rows under a fixed header. Quoting follows the
// standard rules, so titles and notes may contain commas, quotes, and
// newlines.
func CSV(places []models.Place) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"Title", "Note", "Address", "Latitude", "Longitude"}}
	for _, p := range places {
		rows = append(rows, []string{
			p.Title,
			p.Note,
			p.Address,
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lng, 'f', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("csv encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
