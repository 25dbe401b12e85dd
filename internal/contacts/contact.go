// Package contacts keeps the local, never-synced rolodex.
package contacts

import "time"

// ContactRecord is a locally entered contact. It is independent from the
// remote member directory.
type ContactRecord struct {
	// ID is supplied by the caller. The store does not check uniqueness.
	ID        string
	FirstName string
	LastName  string
	Company   string
	Phone     string

	// Birthday is optional. A zero year means the year is unknown.
	Birthday *time.Time

	Email    string
	Address  string
	Tag      string
	Note     string
	PhotoURI string
}

// DisplayName joins first and last name.
func (c ContactRecord) DisplayName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
