package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Subject is the composite identity an answer is recorded against.
// It is not a stored row: all answers sharing the key are the life
// history of one physical animal as recorded by one user.
type Subject struct {
	OwnerUserID  uuid.UUID `json:"owner_user_id"`
	AnimalTypeID int       `json:"animal_type_id"`
	AnimalNumber string    `json:"animal_number"`
}

// String renders the key for log fields and cache keys.
func (s Subject) String() string {
	return fmt.Sprintf("%s/%d/%s", s.OwnerUserID, s.AnimalTypeID, s.AnimalNumber)
}

// Category buckets. Every animal instance with any answer falls into
// exactly one of these.
const (
	CategoryBull   = "bull"
	CategoryHeifer = "heifer"
	CategoryCow    = "cow"
)

// Reproductive status values
const (
	ReproductivePregnant    = "pregnant"
	ReproductiveNonPregnant = "non_pregnant"
)

// Lactation status values
const (
	LactationMilking = "milking"
	LactationDry     = "dry"
)

// Classification is the derived livestock state of one animal
// instance. It is recomputed on demand, never persisted.
// ReproductiveStatus is empty for bulls; LactationStatus is empty for
// bulls and heifers.
type Classification struct {
	Subject            Subject `json:"subject"`
	Category           string  `json:"category"`
	ReproductiveStatus string  `json:"reproductive_status,omitempty"`
	LactationStatus    string  `json:"lactation_status,omitempty"`
}

// HerdSummary holds bucket counts for one owner's herd of a given
// animal type. The buckets partition the herd: Bulls + Heifers + Cows
// equals the number of distinct animal numbers.
type HerdSummary struct {
	OwnerUserID     uuid.UUID `json:"owner_user_id"`
	AnimalTypeID    int       `json:"animal_type_id"`
	Total           int       `json:"total"`
	Bulls           int       `json:"bulls"`
	Heifers         int       `json:"heifers"`
	Cows            int       `json:"cows"`
	PregnantHeifers int       `json:"pregnant_heifers"`
	PregnantCows    int       `json:"pregnant_cows"`
	MilkingCows     int       `json:"milking_cows"`
	DryCows         int       `json:"dry_cows"`
}
