package models

import "time"

// List is a named, ordered collection of places: the unit of sharing and
// synchronization. Places keep insertion order.
type List struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Places    []Place   `json:"places"`
	CreatedAt time.Time `json:"createdAt"`
}

// Collection is the ordered set of lists owned locally plus the pointer to
// the active one. ActiveListID is "" when the collection is empty.
type Collection struct {
	Lists        []List `json:"lists"`
	ActiveListID string `json:"activeListId,omitempty"`
}

// Find returns the list with the given id, or nil.
func (c *Collection) Find(id string) *List {
	for i := range c.Lists {
		if c.Lists[i].ID == id {
			return &c.Lists[i]
		}
	}
	return nil
}

// Replace swaps the list with updated.ID for updated, returning false when
// no such list exists. The slice is rebuilt so callers holding the old
// value never observe a half-applied mutation.
func (c *Collection) Replace(updated List) bool {
	for i := range c.Lists {
		if c.Lists[i].ID == updated.ID {
			next := make([]List, len(c.Lists))
			copy(next, c.Lists)
			next[i] = updated
			c.Lists = next
			return true
		}
	}
	return false
}

// Repair makes ActiveListID reference an existing list: a dangling pointer
// falls back to the first list, or to "" when the collection is empty.
// Returns true when the pointer changed.
func (c *Collection) Repair() bool {
	if c.ActiveListID != "" && c.Find(c.ActiveListID) != nil {
		return false
	}
	prev := c.ActiveListID
	if len(c.Lists) > 0 {
		c.ActiveListID = c.Lists[0].ID
	} else {
		c.ActiveListID = ""
	}
	return c.ActiveListID != prev
}
