package domain

import (
	"strings"
	"time"
)

// Car is a single car note. Ownership is by UserID; only admins may touch
// cars across owners.
type Car struct {
	ID        string    `json:"carId"`
	UserID    string    `json:"userId"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Fuel      string    `json:"fuel"`
	CreatedAt time.Time `json:"createdAt"`
}

// CarFilter narrows car listings. Each non-empty field holds alternative
// substrings of which at least one must match; populated fields combine with
// AND.
type CarFilter struct {
	Brands []string
	Fuels  []string
}

// Matches reports whether the car satisfies every populated filter field.
func (f CarFilter) Matches(c Car) bool {
	return matchAny(c.Brand, f.Brands) && matchAny(c.Fuel, f.Fuels)
}

func matchAny(value string, alternatives []string) bool {
	if len(alternatives) == 0 {
		return true
	}
	for _, alt := range alternatives {
		if alt != "" && strings.Contains(value, alt) {
			return true
		}
	}
	return false
}
