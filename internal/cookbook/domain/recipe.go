package domain

import (
	"strings"
	"time"
)

type Recipe struct {
	ID            string
	Title         string
	Ingredients   []string // ordered
	Instructions  []string // ordered
	FamilySecrets string
	Type          string // category label, not constrained by the schema
	ImageURL      string // uploaded filename, empty when no photo attached
	UserID        string // owner
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListSeparator is the character users type between ingredients and
// instruction steps in recipe forms.
const ListSeparator = "|"

// ParseList splits a "|"-delimited form value into an ordered list,
// trimming whitespace and dropping empty entries. Order is preserved.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ListSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinList renders an ordered list back into the form-input format,
// used to pre-fill the edit form.
func JoinList(items []string) string {
	return strings.Join(items, ListSeparator)
}
