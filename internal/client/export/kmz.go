package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/dmitrijs2005/geolists/internal/models"
)

type kmlDoc struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Point       kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// KML renders the places as KML placemarks. Coordinates are lng,lat,alt per
// the KML convention.
func KML(title string, places []models.Place) ([]byte, error) {
	doc := kmlDoc{
		Xmlns: "http://www.opengis.net/kml/2.2",
		Document: kmlDocument{
			Name: titleOrDefault(title),
		},
	}
	for _, p := range places {
		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:        placeName(p),
			Description: description(p),
			Point: kmlPoint{
				Coordinates: fmt.Sprintf("%v,%v,0", p.Lng, p.Lat),
			},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("kml encoding failed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// KMZ wraps the KML in a zip archive holding a single stored doc.kml entry,
// the layout mapping tools expect.
func KMZ(title string, places []models.Place) ([]byte, error) {
	kml, err := KML(title, places)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "doc.kml",
		Method: zip.Store,
	})
	if err != nil {
		return nil, fmt.Errorf("kmz archive failed: %w", err)
	}
	if _, err := w.Write(kml); err != nil {
		return nil, fmt.Errorf("kmz archive failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("kmz archive failed: %w", err)
	}
	return buf.Bytes(), nil
}
