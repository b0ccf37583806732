// Package models defines the server-side persistence shapes.
package models

import (
	"time"

	"github.com/dmitrijs2005/geolists/internal/models"
)

// Share is a hosted copy of a list. PasswordHash is nil when the share is
// open; the plaintext password is never stored.
type Share struct {
	ID           string
	Title        string
	Places       []models.PayloadPlace
	PasswordHash []byte
	UpdatedAt    time.Time
}

// Protected reports whether reads require a password.
func (s *Share) Protected() bool {
	return len(s.PasswordHash) > 0
}
