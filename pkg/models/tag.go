package models

// Tag is the integer code on a question denoting its semantic role.
// Downstream logic dispatches on the tag, never on question text.
//
// The tag table is versioned configuration owned by this package.
// Changing a tag's meaning is a breaking schema change, not a runtime
// toggle.
type Tag int

const (
	// Classification tags
	TagAnimalNumber Tag = 6  // restated animal number (data-repair input)
	TagGender       Tag = 8  // "male" / "female"
	TagPregnant     Tag = 15 // "yes" / "no"
	TagLactating    Tag = 16 // "yes" / "no"
	TagLifeStage    Tag = 60 // logic_value carries "calf" for young stock

	// Production tags
	TagMilkMorning Tag = 21 // litres, {amount, price} entries
	TagMilkEvening Tag = 22 // litres, {amount, price} entries
	TagMilkFat     Tag = 23 // percent, {name: number} metric payload
	TagMilkSNF     Tag = 24 // percent, {name: number} metric payload

	// Finance tags
	TagIncome          Tag = 31 // recurring income, {amount, price}
	TagExpense         Tag = 32 // recurring expense, {amount, price}
	TagSalePrice       Tag = 33 // one-time income, {amount, price}
	TagPurchasePrice   Tag = 34 // one-time expense, {amount, price}
	TagBreedingExpense Tag = 35 // scalar numeric value
	TagGreenFeedCost   Tag = 36 // recurring expense, price-only entries
	TagDryFeedCost     Tag = 37 // recurring expense, price-only entries

	// Health tags
	TagHealthDate    Tag = 41 // date of a health event, gates the daily row
	TagDisease       Tag = 42
	TagTreatment     Tag = 43
	TagMilkLoss      Tag = 44
	TagTreatmentCost Tag = 45 // price-only entries

	// Breeding tags
	TagInseminationDate Tag = 51
	TagDeliveryDate     Tag = 52
	TagHeatDate         Tag = 53
	TagCalfNumber       Tag = 54 // mother -> calf link, value is the calf's number

	// Investment tags
	TagInvestment Tag = 71 // value = amount, logic_value = investment type id
)

// Role describes how a tag's answers are aggregated and which reports
// consume it.
type Role int

const (
	RoleUnknown Role = iota
	RoleClassification
	RoleIncome         // recurring income, amount*price entries
	RoleIncomeOneTime  // sale-price income, excluded from operational totals
	RoleExpense        // recurring expense, amount*price entries
	RoleExpenseOneTime // purchase-price expense, excluded from operational totals
	RoleScalarExpense  // single numeric value, no entry list
	RoleProduction     // summed daily quantities
	RoleQualityMetric  // {name: number} payload, averaged over the window
	RoleHealth
	RoleBreeding
	RoleInvestment
	RoleDataRepair
)

// TagRoles is the exhaustive tag -> role table. Aggregation and report
// assembly dispatch through this table instead of per-report tag lists.
var TagRoles = map[Tag]Role{
	TagAnimalNumber: RoleDataRepair,
	TagGender:       RoleClassification,
	TagPregnant:     RoleClassification,
	TagLactating:    RoleClassification,
	TagLifeStage:    RoleClassification,

	TagMilkMorning: RoleProduction,
	TagMilkEvening: RoleProduction,
	TagMilkFat:     RoleQualityMetric,
	TagMilkSNF:     RoleQualityMetric,

	TagIncome:          RoleIncome,
	TagExpense:         RoleExpense,
	TagSalePrice:       RoleIncomeOneTime,
	TagPurchasePrice:   RoleExpenseOneTime,
	TagBreedingExpense: RoleScalarExpense,
	TagGreenFeedCost:   RoleExpense,
	TagDryFeedCost:     RoleExpense,

	TagHealthDate:    RoleHealth,
	TagDisease:       RoleHealth,
	TagTreatment:     RoleHealth,
	TagMilkLoss:      RoleHealth,
	TagTreatmentCost: RoleExpense,

	TagInseminationDate: RoleBreeding,
	TagDeliveryDate:     RoleBreeding,
	TagHeatDate:         RoleBreeding,
	TagCalfNumber:       RoleBreeding,

	TagInvestment: RoleInvestment,
}

// RoleOf returns the aggregation role for a tag, RoleUnknown when the
// tag is not in the table.
func RoleOf(tag Tag) Role {
	return TagRoles[tag]
}

// IncomeTags returns the tags contributing to total income.
// One-time sale-price income is included only when includeOneTime is set.
func IncomeTags(includeOneTime bool) []Tag {
	tags := tagsWithRole(RoleIncome)
	if includeOneTime {
		tags = append(tags, tagsWithRole(RoleIncomeOneTime)...)
	}
	return tags
}

// ExpenseTags returns the tags contributing to total expense.
// One-time purchase-price expense is included only when includeOneTime is set.
func ExpenseTags(includeOneTime bool) []Tag {
	tags := tagsWithRole(RoleExpense)
	if includeOneTime {
		tags = append(tags, tagsWithRole(RoleExpenseOneTime)...)
	}
	return tags
}

func tagsWithRole(role Role) []Tag {
	var tags []Tag
	for tag, r := range TagRoles {
		if r == role {
			tags = append(tags, tag)
		}
	}
	return tags
}
