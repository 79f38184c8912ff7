package models

import (
	"time"

	"github.com/google/uuid"
)

// Farmer is a registered user whose answers this engine reports over.
// OutletID links a farmer to the business outlet they are delegated
// to; it is nil for independent farmers.
type Farmer struct {
	ID           uuid.UUID  `json:"id"`
	OutletID     *uuid.UUID `json:"outlet_id,omitempty"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	RegisteredAt time.Time  `json:"registered_at"`
}
