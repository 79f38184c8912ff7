package models

import "github.com/google/uuid"

// Question defines a recordable observation. Only Tag is consumed by
// the resolution and report engine; text and category are display
// metadata owned by the CRUD layer.
type Question struct {
	ID             uuid.UUID `json:"id"`
	Tag            Tag       `json:"tag"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory,omitempty"`
	ValidationRule string    `json:"validation_rule,omitempty"`
	Text           string    `json:"text"`
}
