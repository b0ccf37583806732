// Package sharecode maps a SharePayload to a compact URL-safe token and
// back. Sharing must work with zero server dependency for read-only links,
// and links are bounded by practical URL/QR length, so the encoder produces
// two candidates, a DEFLATE-compressed form and a plain form, and keeps
// whichever is shorter. The decoder tries them in the same order and treats
// anything unreadable as "no payload" rather than an error.
package sharecode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/models"
)

var token64 = base64.RawURLEncoding

// Encode serializes payload into a URL-safe token. It never fails: when
// compression offers no benefit the plain form is used.
func Encode(payload models.SharePayload) string {
	compact := Compact(payload)

	raw, err := json.Marshal(compact)
	if err != nil {
		// Marshalling a value of these concrete types cannot fail; the
		// branch exists so a future field type slip degrades to an empty
		// list link instead of a panic.
		raw = []byte(`{"title":"","places":[],"editable":false}`)
	}

	plain := token64.EncodeToString(raw)

	compressed, err := deflate(raw)
	if err == nil && len(compressed) < len(plain) {
		return compressed
	}
	return plain
}

// Decode parses a token produced by Encode (or by an older client).
// Decompression is attempted first; any failure falls back to the plain
// decode; if both fail the token carries no payload and
// common.ErrNoPayload is returned.
func Decode(token string) (*models.SharePayload, error) {
	if token == "" {
		return nil, common.ErrNoPayload
	}

	raw, err := decodeBase64(token)
	if err != nil {
		return nil, common.ErrNoPayload
	}

	if inflated, err := inflate(raw); err == nil {
		if p, ok := parse(inflated); ok {
			return p, nil
		}
	}

	if p, ok := parse(raw); ok {
		return p, nil
	}

	return nil, common.ErrNoPayload
}

// Compact strips payload to the portable shape: positional ids (global
// uniqueness is not needed in a standalone export), defaulted title, and
// only places with finite coordinates.
func Compact(payload models.SharePayload) models.SharePayload {
	places := normalizePlaces(payload.Places)
	for i := range places {
		places[i].ID = fmt.Sprintf("p%d", i)
	}
	title := payload.Title
	if title == "" {
		title = common.DefaultListTitle
	}
	return models.SharePayload{Title: title, Places: places, Editable: payload.Editable}
}

// wirePayload tolerates the abbreviated "p" key some older links used for
// the places array.
type wirePayload struct {
	Title    string                `json:"title"`
	Places   []models.PayloadPlace `json:"places"`
	P        []models.PayloadPlace `json:"p"`
	Editable bool                  `json:"editable"`
}

func parse(raw []byte) (*models.SharePayload, bool) {
	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, false
	}
	places := w.Places
	if places == nil {
		places = w.P
	}
	title := w.Title
	if title == "" {
		title = common.DefaultListTitle
	}
	return &models.SharePayload{
		Title:    title,
		Places:   normalizePlaces(places),
		Editable: w.Editable,
	}, true
}

func normalizePlaces(places []models.PayloadPlace) []models.PayloadPlace {
	out := make([]models.PayloadPlace, 0, len(places))
	for i, p := range places {
		if !(models.Place{Lat: p.Lat, Lng: p.Lng}).HasFiniteCoords() {
			continue
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("p%d", i)
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = time.Now().UnixMilli()
		}
		out = append(out, p)
	}
	return out
}

func deflate(raw []byte) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(raw); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return token64.EncodeToString(buf.Bytes()), nil
}

func inflate(raw []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeBase64 accepts both the unpadded URL-safe form we emit and padded
// or standard-alphabet tokens pasted from elsewhere.
func decodeBase64(token string) ([]byte, error) {
	if raw, err := token64.DecodeString(token); err == nil {
		return raw, nil
	}
	if raw, err := base64.URLEncoding.DecodeString(token); err == nil {
		return raw, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(token); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(token)
}
