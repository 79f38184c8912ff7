package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/models"
)

func setupAggregationTest(t *testing.T) (AggregationService, *mockAnswerRepo, models.Subject) {
	t.Helper()

	repo := &mockAnswerRepo{}
	svc := NewAggregationService(repo, zap.NewNop())
	return svc, repo, testSubject()
}

func aggWindow(t *testing.T, from, to string) *models.Window {
	t.Helper()

	fromT, err := time.Parse("2006-01-02", from)
	require.NoError(t, err)
	toT, err := time.Parse("2006-01-02", to)
	require.NoError(t, err)

	w, err := models.NewWindow(fromT, toT)
	require.NoError(t, err)
	return &w
}

func TestSumByTag_EntryListsMultiplyAmountByPrice(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagExpense, `[{"amount":2,"price":50}]`, "", at)
	repo.seed(subject, models.TagExpense, `[{"amount":1,"price":30}]`, "", at.Add(2*time.Hour))

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagExpense,
		aggWindow(t, "2026-05-10", "2026-05-10"))
	require.NoError(t, err)
	assert.InDelta(t, 130.0, sum, 1e-9)
}

func TestSumByTag_MissingAmountDefaultsToOne(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	repo.seed(subject, models.TagIncome, `[{"price":75.5}]`, "", time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC))

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagIncome, nil)
	require.NoError(t, err)
	assert.InDelta(t, 75.5, sum, 1e-9)
}

func TestSumByTag_ScalarRole(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagBreedingExpense, "150.5", "", at)
	repo.seed(subject, models.TagBreedingExpense, `"49.5"`, "", at.AddDate(0, 0, 1))

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagBreedingExpense, nil)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, sum, 1e-9)
}

func TestSumByTag_MalformedPayloadsAreSkipped(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagExpense, `not json at all`, "", at)
	repo.seed(subject, models.TagExpense, `[{"amount":1}]`, "", at) // entries without a price are invalid
	repo.seed(subject, models.TagExpense, `[{"amount":3,"price":10}]`, "", at)

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagExpense, nil)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, sum, 1e-9, "malformed records should be skipped, not fail the aggregate")
}

func TestSumByTag_WindowExcludesOutsideDays(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":100}]`, "", time.Date(2026, 5, 9, 23, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":40}]`, "", time.Date(2026, 5, 10, 0, 30, 0, 0, time.UTC))
	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":7}]`, "", time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC))

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagIncome,
		aggWindow(t, "2026-05-10", "2026-05-10"))
	require.NoError(t, err)
	assert.InDelta(t, 40.0, sum, 1e-9)
}

func TestSumByTag_OrderOfRecordingIsIrrelevant(t *testing.T) {
	owner := uuid.New()
	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	values := []string{
		`[{"amount":2,"price":50}]`,
		`[{"amount":1,"price":30}]`,
		`[{"price":20}]`,
	}

	forward := &mockAnswerRepo{}
	backward := &mockAnswerRepo{}
	subject := models.Subject{OwnerUserID: owner, AnimalTypeID: 1, AnimalNumber: "A-1"}
	for i, v := range values {
		forward.seed(subject, models.TagExpense, v, "", at.Add(time.Duration(i)*time.Hour))
	}
	for i := len(values) - 1; i >= 0; i-- {
		backward.seed(subject, models.TagExpense, values[i], "", at.Add(time.Duration(i)*time.Hour))
	}

	a, err := NewAggregationService(forward, zap.NewNop()).SumByTag(context.Background(), owner, models.TagExpense, nil)
	require.NoError(t, err)
	b, err := NewAggregationService(backward, zap.NewNop()).SumByTag(context.Background(), owner, models.TagExpense, nil)
	require.NoError(t, err)

	assert.InDelta(t, a, b, 1e-9, "sums should not depend on recording order")
	assert.InDelta(t, 150.0, a, 1e-9)
}

func TestCountByTag(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagHealthDate, "2026-05-10", "", at)
	repo.seed(subject, models.TagHealthDate, "2026-05-10", "", at.Add(time.Hour))
	repo.seed(subject, models.TagHealthDate, "2026-05-12", "", at.AddDate(0, 0, 2))

	count, err := svc.CountByTag(context.Background(), subject.OwnerUserID, models.TagHealthDate,
		aggWindow(t, "2026-05-10", "2026-05-11"))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAverageByTag_QualityMetric(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagMilkFat, `{"fat":4.0}`, "", at)
	repo.seed(subject, models.TagMilkFat, `{"fat":5.0}`, "", at.AddDate(0, 0, 1))

	avg, err := svc.AverageByTag(context.Background(), subject.OwnerUserID, models.TagMilkFat, nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
}

func TestAverageByTag_EmptyWindowIsZero(t *testing.T) {
	svc, _, subject := setupAggregationTest(t)

	avg, err := svc.AverageByTag(context.Background(), subject.OwnerUserID, models.TagMilkFat,
		aggWindow(t, "2026-05-10", "2026-05-10"))
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestSumDailyByTag(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	repo.seed(subject, models.TagMilkMorning, `[{"price":4}]`, "", time.Date(2026, 5, 10, 6, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkMorning, `[{"price":3}]`, "", time.Date(2026, 5, 10, 7, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkMorning, `[{"price":5}]`, "", time.Date(2026, 5, 12, 6, 0, 0, 0, time.UTC))

	daily, err := svc.SumDailyByTag(context.Background(), subject.OwnerUserID, models.TagMilkMorning,
		aggWindow(t, "2026-05-10", "2026-05-12"))
	require.NoError(t, err)

	assert.Len(t, daily, 2)
	assert.InDelta(t, 7.0, daily["2026-05-10"], 1e-9)
	assert.InDelta(t, 5.0, daily["2026-05-12"], 1e-9)
	_, present := daily["2026-05-11"]
	assert.False(t, present, "days without answers should be absent from the map")
}

func TestSumByTag_CrossesAnimalsOfOneOwner(t *testing.T) {
	svc, repo, subject := setupAggregationTest(t)

	other := subject
	other.AnimalNumber = "A-202"
	stranger := models.Subject{OwnerUserID: uuid.New(), AnimalTypeID: 1, AnimalNumber: "X-1"}

	at := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":10}]`, "", at)
	repo.seed(other, models.TagIncome, `[{"amount":1,"price":15}]`, "", at)
	repo.seed(stranger, models.TagIncome, `[{"amount":1,"price":99}]`, "", at)

	sum, err := svc.SumByTag(context.Background(), subject.OwnerUserID, models.TagIncome, nil)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, sum, 1e-9, "aggregation spans all animals of the owner and none of anyone else's")
}
