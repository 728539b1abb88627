package domain

import "time"

// User is a registered account holder. Users are immutable once registered.
type User struct {
	SSN       string    `json:"ssn"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
