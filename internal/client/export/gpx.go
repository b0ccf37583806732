package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geolists/internal/models"
)

type gpxDoc struct {
	XMLName  xml.Name `xml:"gpx"`
	Version  string   `xml:"version,attr"`
	Creator  string   `xml:"creator,attr"`
	Xmlns    string   `xml:"xmlns,attr"`
	Metadata gpxMeta  `xml:"metadata"`
	Wpts     []gpxWpt `xml:"wpt"`
}

type gpxMeta struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type gpxWpt struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name string  `xml:"name"`
	Desc string  `xml:"desc"`
}

// GPX renders the places as GPX 1.1 waypoints.
func GPX(title string, places []models.Place, now time.Time) ([]byte, error) {
	doc := gpxDoc{
		Version: "1.1",
		Creator: "GeoLists",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Metadata: gpxMeta{
			Name: titleOrDefault(title),
			Time: now.UTC().Format(time.RFC3339),
		},
	}
	for _, p := range places {
		doc.Wpts = append(doc.Wpts, gpxWpt{
			Lat:  p.Lat,
			Lon:  p.Lng,
			Name: placeName(p),
			Desc: description(p),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("gpx encoding failed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
