package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Money formats a monetary or quantity total for report output.
// Accumulation stays in full float precision everywhere; rounding to
// two decimals happens only here, at assembly time.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ProfitLossReport is the financial summary over a window. Totals are
// computed twice: including one-time sale/purchase prices and
// excluding them (operational). The sign convention puts the absolute
// total in Profit or Loss and leaves the other at "0.00".
type ProfitLossReport struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Profit       string `json:"profit"`
	Loss         string `json:"loss"`

	OperationalIncome  string `json:"operational_income"`
	OperationalExpense string `json:"operational_expense"`
	OperationalProfit  string `json:"operational_profit"`
	OperationalLoss    string `json:"operational_loss"`

	BreedingExpense string `json:"breeding_expense"`
}

// ProductionDay is one calendar day of milk production.
type ProductionDay struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Morning string `json:"morning"`
	Evening string `json:"evening"`
	Total   string `json:"total"`
}

// ProductionReport sums morning/evening milk per day and averages the
// quality metrics over the whole window.
type ProductionReport struct {
	Days         []ProductionDay `json:"days"`
	TotalMorning string          `json:"total_morning"`
	TotalEvening string          `json:"total_evening"`
	Total        string          `json:"total"`
	FatAverage   string          `json:"fat_average"`
	SNFAverage   string          `json:"snf_average"`
}

// HealthRecord is one animal's health event on one day. A day
// contributes a record only when the health-date answer is present.
type HealthRecord struct {
	AnimalNumber string `json:"animal_number"`
	Date         string `json:"date"` // YYYY-MM-DD
	Disease      string `json:"disease,omitempty"`
	Treatment    string `json:"treatment,omitempty"`
	MilkLoss     string `json:"milk_loss,omitempty"`
}

// HealthReport joins per-animal daily health events with the
// window-wide treatment cost total.
type HealthReport struct {
	Records       []HealthRecord `json:"records"`
	TreatmentCost string         `json:"treatment_cost"`
}

// InvestmentItem is one recorded asset with its localized type name
// and age computed against the report time.
type InvestmentItem struct {
	TypeID     int    `json:"type_id"`
	TypeName   string `json:"type_name"`
	Amount     string `json:"amount"`
	AgeInYears string `json:"age_in_year"`
	RecordedAt string `json:"recorded_at"` // YYYY-MM-DD
}

// InvestmentReport lists a farmer's recorded assets.
type InvestmentReport struct {
	Items []InvestmentItem `json:"items"`
	Total string           `json:"total"`
}

// BreedingEvent is a dated breeding observation.
type BreedingEvent struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// DeliveryEvent is a delivery cross-referenced with the mother->calf
// link so the calf's number rides along when recorded.
type DeliveryEvent struct {
	Date       string `json:"date"` // YYYY-MM-DD
	CalfNumber string `json:"calf_number,omitempty"`
}

// BreedingHistory is one animal's insemination, delivery and heat
// history, each keyed by event timestamp.
type BreedingHistory struct {
	AnimalNumber  string          `json:"animal_number"`
	Inseminations []BreedingEvent `json:"inseminations"`
	Deliveries    []DeliveryEvent `json:"deliveries"`
	Heats         []BreedingEvent `json:"heats"`
}

// BreedingReport lists breeding histories for a herd.
type BreedingReport struct {
	Animals []BreedingHistory `json:"animals"`
}

// FarmerDashboard is one farmer's slice of an outlet dashboard.
type FarmerDashboard struct {
	FarmerID   uuid.UUID        `json:"farmer_id"`
	FarmerName string           `json:"farmer_name"`
	Herd       HerdSummary      `json:"herd"`
	ProfitLoss ProfitLossReport `json:"profit_loss"`
}

// OutletDashboard folds per-farmer herd counts and monetary totals
// into outlet-wide totals. NoMatch marks a search selector that
// resolved zero farmers; the rest of the report stays zeroed.
type OutletDashboard struct {
	OutletID     uuid.UUID         `json:"outlet_id"`
	NoMatch      bool              `json:"no_match"`
	FarmerCount  int               `json:"farmer_count"`
	Herd         HerdSummary       `json:"herd"`
	TotalIncome  string            `json:"total_income"`
	TotalExpense string            `json:"total_expense"`
	Profit       string            `json:"profit"`
	Loss         string            `json:"loss"`
	Farmers      []FarmerDashboard `json:"farmers"`
}

// EmptyProfitLoss keeps the report shape structurally complete on
// sparse data.
func EmptyProfitLoss() ProfitLossReport {
	zero := Money(0)
	return ProfitLossReport{
		TotalIncome:        zero,
		TotalExpense:       zero,
		Profit:             zero,
		Loss:               zero,
		OperationalIncome:  zero,
		OperationalExpense: zero,
		OperationalProfit:  zero,
		OperationalLoss:    zero,
		BreedingExpense:    zero,
	}
}
