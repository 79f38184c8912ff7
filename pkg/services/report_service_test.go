package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
)

type mockInvestmentTypeRepo struct {
	names map[string]string // "typeID:lang" -> name
	err   error
}

func (m *mockInvestmentTypeRepo) LocalizedName(ctx context.Context, typeID int, lang string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if name, ok := m.names[fmt.Sprintf("%d:%s", typeID, lang)]; ok {
		return name, nil
	}
	if name, ok := m.names[fmt.Sprintf("%d:en", typeID)]; ok {
		return name, nil
	}
	return "", apperrors.ErrNotFound
}

func setupReportTest(t *testing.T) (*reportService, *mockAnswerRepo, *mockInvestmentTypeRepo) {
	t.Helper()

	repo := &mockAnswerRepo{}
	invRepo := &mockInvestmentTypeRepo{names: make(map[string]string)}
	agg := NewAggregationService(repo, zap.NewNop())
	svc := NewReportService(agg, repo, invRepo, zap.NewNop()).(*reportService)
	return svc, repo, invRepo
}

// ============================================================================
// Profit / Loss
// ============================================================================

func TestProfitLoss_ProfitCase(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":500}]`, "", at)
	repo.seed(subject, models.TagSalePrice, `[{"amount":1,"price":200}]`, "", at)
	repo.seed(subject, models.TagExpense, `[{"amount":1,"price":100}]`, "", at)
	repo.seed(subject, models.TagPurchasePrice, `[{"amount":1,"price":50}]`, "", at)
	repo.seed(subject, models.TagBreedingExpense, "25", "", at)

	report, err := svc.ProfitLoss(context.Background(), subject.OwnerUserID, nil)
	require.NoError(t, err)

	assert.Equal(t, "700.00", report.TotalIncome)
	assert.Equal(t, "150.00", report.TotalExpense)
	assert.Equal(t, "550.00", report.Profit)
	assert.Equal(t, "0.00", report.Loss)

	assert.Equal(t, "500.00", report.OperationalIncome)
	assert.Equal(t, "100.00", report.OperationalExpense)
	assert.Equal(t, "400.00", report.OperationalProfit)
	assert.Equal(t, "0.00", report.OperationalLoss)

	assert.Equal(t, "25.00", report.BreedingExpense)
}

func TestProfitLoss_LossCase(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	repo.seed(subject, models.TagIncome, `[{"amount":1,"price":100}]`, "", at)
	repo.seed(subject, models.TagGreenFeedCost, `[{"price":180}]`, "", at)
	repo.seed(subject, models.TagDryFeedCost, `[{"price":70}]`, "", at)

	report, err := svc.ProfitLoss(context.Background(), subject.OwnerUserID, nil)
	require.NoError(t, err)

	assert.Equal(t, "100.00", report.TotalIncome)
	assert.Equal(t, "250.00", report.TotalExpense)
	assert.Equal(t, "0.00", report.Profit)
	assert.Equal(t, "150.00", report.Loss)
}

func TestProfitLoss_OperationalViewCanDiverge(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	// A big one-time sale masks an operational loss.
	repo.seed(subject, models.TagSalePrice, `[{"amount":1,"price":1000}]`, "", at)
	repo.seed(subject, models.TagExpense, `[{"amount":1,"price":200}]`, "", at)

	report, err := svc.ProfitLoss(context.Background(), subject.OwnerUserID, nil)
	require.NoError(t, err)

	assert.Equal(t, "800.00", report.Profit)
	assert.Equal(t, "0.00", report.Loss)
	assert.Equal(t, "0.00", report.OperationalProfit)
	assert.Equal(t, "200.00", report.OperationalLoss)
}

func TestProfitLoss_EmptyHistory(t *testing.T) {
	svc, _, _ := setupReportTest(t)

	report, err := svc.ProfitLoss(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	assert.Equal(t, "0.00", report.TotalIncome)
	assert.Equal(t, "0.00", report.TotalExpense)
	assert.Equal(t, "0.00", report.Profit)
	assert.Equal(t, "0.00", report.Loss)
}

// ============================================================================
// Production
// ============================================================================

func TestProduction_DailyRowsCoverTheWholeWindow(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	repo.seed(subject, models.TagMilkMorning, `[{"price":4}]`, "", time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkMorning, `[{"price":3.5}]`, "", time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkEvening, `[{"price":5}]`, "", time.Date(2026, 6, 3, 18, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkFat, `{"fat":4.0}`, "", time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkFat, `{"fat":5.0}`, "", time.Date(2026, 6, 3, 8, 0, 0, 0, time.UTC))
	repo.seed(subject, models.TagMilkSNF, `{"snf":8.5}`, "", time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))

	window := aggWindow(t, "2026-06-01", "2026-06-03")
	report, err := svc.Production(context.Background(), subject.OwnerUserID, *window)
	require.NoError(t, err)

	require.Len(t, report.Days, 3, "every day of the window gets a row")

	assert.Equal(t, "2026-06-01", report.Days[0].Date)
	assert.Equal(t, "7.50", report.Days[0].Morning)
	assert.Equal(t, "0.00", report.Days[0].Evening)
	assert.Equal(t, "7.50", report.Days[0].Total)

	assert.Equal(t, "2026-06-02", report.Days[1].Date)
	assert.Equal(t, "0.00", report.Days[1].Total)

	assert.Equal(t, "2026-06-03", report.Days[2].Date)
	assert.Equal(t, "5.00", report.Days[2].Evening)

	assert.Equal(t, "7.50", report.TotalMorning)
	assert.Equal(t, "5.00", report.TotalEvening)
	assert.Equal(t, "12.50", report.Total)
	assert.Equal(t, "4.50", report.FatAverage)
	assert.Equal(t, "8.50", report.SNFAverage)
}

// ============================================================================
// Health
// ============================================================================

func TestHealth_DaysAreGatedOnHealthDateAnswers(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	day1 := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	repo.seed(subject, models.TagHealthDate, "2026-06-01", "", day1)
	repo.seed(subject, models.TagDisease, "mastitis", "", day1)
	repo.seed(subject, models.TagTreatment, "antibiotics", "", day1.Add(time.Hour))
	repo.seed(subject, models.TagMilkLoss, "2", "", day1)

	// A disease recorded without a health date on its day never surfaces.
	repo.seed(subject, models.TagDisease, "fever", "", day2)

	repo.seed(subject, models.TagTreatmentCost, `[{"price":300}]`, "", day1)

	window := aggWindow(t, "2026-06-01", "2026-06-03")
	report, err := svc.Health(context.Background(), subject.OwnerUserID, *window)
	require.NoError(t, err)

	require.Len(t, report.Records, 1)
	record := report.Records[0]
	assert.Equal(t, subject.AnimalNumber, record.AnimalNumber)
	assert.Equal(t, "2026-06-01", record.Date)
	assert.Equal(t, "mastitis", record.Disease)
	assert.Equal(t, "antibiotics", record.Treatment)
	assert.Equal(t, "2", record.MilkLoss)

	assert.Equal(t, "300.00", report.TreatmentCost)
}

func TestHealth_DuplicateHealthDatesCollapseToOneRecord(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	day := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagHealthDate, "2026-06-01", "", day)
	repo.seed(subject, models.TagHealthDate, "2026-06-01", "", day.Add(2*time.Hour))
	repo.seed(subject, models.TagDisease, "mastitis", "", day)
	// The later answer on the day is the authoritative one.
	repo.seed(subject, models.TagDisease, "foot rot", "", day.Add(3*time.Hour))

	window := aggWindow(t, "2026-06-01", "2026-06-01")
	report, err := svc.Health(context.Background(), subject.OwnerUserID, *window)
	require.NoError(t, err)

	require.Len(t, report.Records, 1)
	assert.Equal(t, "foot rot", report.Records[0].Disease)
}

func TestHealth_MultipleAnimals(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()
	other := subject
	other.AnimalNumber = "A-102"
	healthy := subject
	healthy.AnimalNumber = "A-103"

	day := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagHealthDate, "2026-06-01", "", day)
	repo.seed(other, models.TagHealthDate, "2026-06-01", "", day)
	repo.seed(healthy, models.TagMilkMorning, `[{"price":4}]`, "", day)

	window := aggWindow(t, "2026-06-01", "2026-06-01")
	report, err := svc.Health(context.Background(), subject.OwnerUserID, *window)
	require.NoError(t, err)

	assert.Len(t, report.Records, 2, "animals without health answers contribute no records")
}

// ============================================================================
// Investment
// ============================================================================

func TestInvestment_LocalizedNamesAndAges(t *testing.T) {
	svc, repo, invRepo := setupReportTest(t)
	subject := testSubject()

	invRepo.names["1:en"] = "Tractor"
	invRepo.names["1:hi"] = "Tractor (hi)"
	invRepo.names["2:en"] = "Shed"

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.seed(subject, models.TagInvestment, "100000", "1", now.AddDate(-2, 0, 0))
	repo.seed(subject, models.TagInvestment, "50000", "2", now.AddDate(0, -6, 0))

	report, err := svc.Investment(context.Background(), subject.OwnerUserID, "hi")
	require.NoError(t, err)

	require.Len(t, report.Items, 2)
	assert.Equal(t, "150000.00", report.Total)

	// Scans come back newest first.
	assert.Equal(t, "Shed", report.Items[0].TypeName, "missing translations fall back to English")
	assert.Equal(t, "50000.00", report.Items[0].Amount)
	assert.Equal(t, "0.5", report.Items[0].AgeInYears)

	assert.Equal(t, "Tractor (hi)", report.Items[1].TypeName)
	assert.Equal(t, "2.0", report.Items[1].AgeInYears)
}

func TestInvestment_UnknownTypeGetsPlaceholderName(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	repo.seed(subject, models.TagInvestment, "5000", "9", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	report, err := svc.Investment(context.Background(), subject.OwnerUserID, "en")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, "Type 9", report.Items[0].TypeName)
}

func TestInvestment_MalformedRecordsAreSkipped(t *testing.T) {
	svc, repo, invRepo := setupReportTest(t)
	subject := testSubject()
	invRepo.names["1:en"] = "Tractor"

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagInvestment, "not a number", "1", at)
	repo.seed(subject, models.TagInvestment, "4000", "not an id", at)
	repo.seed(subject, models.TagInvestment, "4000", "1", at)

	report, err := svc.Investment(context.Background(), subject.OwnerUserID, "en")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, "4000.00", report.Total)
}

// ============================================================================
// Breeding
// ============================================================================

func TestBreeding_EventDatesPreferTheRecordedValue(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	recordedOn := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagInseminationDate, "2026-06-01", "", recordedOn)
	repo.seed(subject, models.TagHeatDate, "not a date", "", recordedOn)

	report, err := svc.Breeding(context.Background(), subject.OwnerUserID, 0, nil)
	require.NoError(t, err)

	require.Len(t, report.Animals, 1)
	history := report.Animals[0]
	require.Len(t, history.Inseminations, 1)
	assert.Equal(t, "2026-06-01", history.Inseminations[0].Date)
	require.Len(t, history.Heats, 1)
	assert.Equal(t, "2026-06-05", history.Heats[0].Date, "unparseable values fall back to the recording day")
}

func TestBreeding_DeliveriesCarryTheLinkedCalfNumber(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()

	day := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagDeliveryDate, "2026-06-05", "", day)
	repo.seed(subject, models.TagCalfNumber, "CALF-7", "", day.Add(time.Minute))

	report, err := svc.Breeding(context.Background(), subject.OwnerUserID, 0, nil)
	require.NoError(t, err)

	require.Len(t, report.Animals, 1)
	require.Len(t, report.Animals[0].Deliveries, 1)
	assert.Equal(t, "CALF-7", report.Animals[0].Deliveries[0].CalfNumber)
}

func TestBreeding_AnimalsWithoutHistoryAreSkipped(t *testing.T) {
	svc, repo, _ := setupReportTest(t)
	subject := testSubject()
	quiet := subject
	quiet.AnimalNumber = "A-102"

	day := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	repo.seed(subject, models.TagInseminationDate, "2026-06-01", "", day)
	repo.seed(quiet, models.TagMilkMorning, `[{"price":4}]`, "", day)

	report, err := svc.Breeding(context.Background(), subject.OwnerUserID, 0, nil)
	require.NoError(t, err)

	require.Len(t, report.Animals, 1)
	assert.Equal(t, subject.AnimalNumber, report.Animals[0].AnimalNumber)
}
