package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleClassification, RoleOf(TagGender))
	assert.Equal(t, RoleProduction, RoleOf(TagMilkMorning))
	assert.Equal(t, RoleQualityMetric, RoleOf(TagMilkFat))
	assert.Equal(t, RoleScalarExpense, RoleOf(TagBreedingExpense))
	assert.Equal(t, RoleDataRepair, RoleOf(TagAnimalNumber))
	assert.Equal(t, RoleUnknown, RoleOf(Tag(9999)))
}

func TestIncomeTags(t *testing.T) {
	operational := IncomeTags(false)
	assert.ElementsMatch(t, []Tag{TagIncome}, operational)

	all := IncomeTags(true)
	assert.ElementsMatch(t, []Tag{TagIncome, TagSalePrice}, all)
}

func TestExpenseTags(t *testing.T) {
	operational := ExpenseTags(false)
	assert.ElementsMatch(t, []Tag{TagExpense, TagGreenFeedCost, TagDryFeedCost, TagTreatmentCost}, operational)

	all := ExpenseTags(true)
	assert.ElementsMatch(t, []Tag{TagExpense, TagGreenFeedCost, TagDryFeedCost, TagTreatmentCost, TagPurchasePrice}, all)
	assert.NotContains(t, all, TagBreedingExpense, "the scalar breeding expense is reported separately")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "130.00", Money(130))
	assert.Equal(t, "2.50", Money(2.5))
	assert.Equal(t, "1234.57", Money(1234.567))
}
