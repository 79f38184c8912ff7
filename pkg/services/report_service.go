package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
	"github.com/farmbook-io/farmbook-engine/pkg/jsonutil"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// ProfitLossTotals carries unrounded financial accumulators. Rollups
// fold these across farmers before any rounding happens; the formatted
// ProfitLossReport is assembled from them at the end.
type ProfitLossTotals struct {
	Income             float64
	Expense            float64
	OperationalIncome  float64
	OperationalExpense float64
	BreedingExpense    float64
}

// ReportService composes classification and aggregation outputs into
// the named report shapes. Every report is a pure read; none performs
// writes.
type ReportService interface {
	// ProfitLoss sums income and expense tags over the window, once
	// including one-time sale/purchase prices and once excluding them.
	// A nil window covers all time.
	ProfitLoss(ctx context.Context, ownerUserID uuid.UUID, window *models.Window) (*models.ProfitLossReport, error)

	// ProfitLossTotals returns the unrounded accumulators behind
	// ProfitLoss, for callers that keep folding (outlet rollup).
	ProfitLossTotals(ctx context.Context, ownerUserID uuid.UUID, window *models.Window) (*ProfitLossTotals, error)

	// Production sums morning/evening milk per calendar day of the
	// window and averages fat/SNF across it.
	Production(ctx context.Context, ownerUserID uuid.UUID, window models.Window) (*models.ProductionReport, error)

	// Health joins per-animal daily health events; a day contributes
	// only when the health-date answer is present. Treatment cost is
	// summed separately over the whole window.
	Health(ctx context.Context, ownerUserID uuid.UUID, window models.Window) (*models.HealthReport, error)

	// Investment lists recorded assets with localized type names and
	// ages computed against the report time.
	Investment(ctx context.Context, ownerUserID uuid.UUID, lang string) (*models.InvestmentReport, error)

	// Breeding assembles per-animal insemination, delivery and heat
	// histories; deliveries carry the linked calf number when one was
	// recorded. A nil window covers all time.
	Breeding(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int, window *models.Window) (*models.BreedingReport, error)
}

type reportService struct {
	aggregation        AggregationService
	answerRepo         repositories.AnswerRepository
	investmentTypeRepo repositories.InvestmentTypeRepository
	logger             *zap.Logger
	now                func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	aggregation AggregationService,
	answerRepo repositories.AnswerRepository,
	investmentTypeRepo repositories.InvestmentTypeRepository,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		aggregation:        aggregation,
		answerRepo:         answerRepo,
		investmentTypeRepo: investmentTypeRepo,
		logger:             logger,
		now:                time.Now,
	}
}

var _ ReportService = (*reportService)(nil)

// ============================================================================
// Profit / Loss
// ============================================================================

func (s *reportService) ProfitLossTotals(ctx context.Context, ownerUserID uuid.UUID, window *models.Window) (*ProfitLossTotals, error) {
	totals := &ProfitLossTotals{}

	for _, tag := range models.IncomeTags(true) {
		v, err := s.aggregation.SumByTag(ctx, ownerUserID, tag, window)
		if err != nil {
			return nil, err
		}
		totals.Income += v
		if models.RoleOf(tag) == models.RoleIncome {
			totals.OperationalIncome += v
		}
	}

	for _, tag := range models.ExpenseTags(true) {
		v, err := s.aggregation.SumByTag(ctx, ownerUserID, tag, window)
		if err != nil {
			return nil, err
		}
		totals.Expense += v
		if models.RoleOf(tag) == models.RoleExpense {
			totals.OperationalExpense += v
		}
	}

	breeding, err := s.aggregation.SumByTag(ctx, ownerUserID, models.TagBreedingExpense, window)
	if err != nil {
		return nil, err
	}
	totals.BreedingExpense = breeding

	return totals, nil
}

func (s *reportService) ProfitLoss(ctx context.Context, ownerUserID uuid.UUID, window *models.Window) (*models.ProfitLossReport, error) {
	totals, err := s.ProfitLossTotals(ctx, ownerUserID, window)
	if err != nil {
		return nil, err
	}

	report := totals.Report()
	return &report, nil
}

// Report formats the totals with the profit/loss sign convention:
// the positive difference lands in profit, the negative one in loss,
// and the unused side stays "0.00".
func (t *ProfitLossTotals) Report() models.ProfitLossReport {
	report := models.EmptyProfitLoss()
	report.TotalIncome = models.Money(t.Income)
	report.TotalExpense = models.Money(t.Expense)
	report.OperationalIncome = models.Money(t.OperationalIncome)
	report.OperationalExpense = models.Money(t.OperationalExpense)
	report.BreedingExpense = models.Money(t.BreedingExpense)

	if net := t.Income - t.Expense; net >= 0 {
		report.Profit = models.Money(net)
	} else {
		report.Loss = models.Money(-net)
	}

	if net := t.OperationalIncome - t.OperationalExpense; net >= 0 {
		report.OperationalProfit = models.Money(net)
	} else {
		report.OperationalLoss = models.Money(-net)
	}

	return report
}

// ============================================================================
// Production
// ============================================================================

func (s *reportService) Production(ctx context.Context, ownerUserID uuid.UUID, window models.Window) (*models.ProductionReport, error) {
	morning, err := s.aggregation.SumDailyByTag(ctx, ownerUserID, models.TagMilkMorning, &window)
	if err != nil {
		return nil, err
	}
	evening, err := s.aggregation.SumDailyByTag(ctx, ownerUserID, models.TagMilkEvening, &window)
	if err != nil {
		return nil, err
	}

	report := &models.ProductionReport{Days: []models.ProductionDay{}}

	var totalMorning, totalEvening float64
	for _, day := range window.Days() {
		key := models.DateKey(day)
		m := morning[key]
		e := evening[key]
		totalMorning += m
		totalEvening += e

		report.Days = append(report.Days, models.ProductionDay{
			Date:    key,
			Morning: models.Money(m),
			Evening: models.Money(e),
			Total:   models.Money(m + e),
		})
	}

	report.TotalMorning = models.Money(totalMorning)
	report.TotalEvening = models.Money(totalEvening)
	report.Total = models.Money(totalMorning + totalEvening)

	fat, err := s.aggregation.AverageByTag(ctx, ownerUserID, models.TagMilkFat, &window)
	if err != nil {
		return nil, err
	}
	snf, err := s.aggregation.AverageByTag(ctx, ownerUserID, models.TagMilkSNF, &window)
	if err != nil {
		return nil, err
	}
	report.FatAverage = models.Money(fat)
	report.SNFAverage = models.Money(snf)

	return report, nil
}

// ============================================================================
// Health
// ============================================================================

func (s *reportService) Health(ctx context.Context, ownerUserID uuid.UUID, window models.Window) (*models.HealthReport, error) {
	subjects, err := s.answerRepo.DistinctSubjects(ctx, ownerUserID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate herd for health report: %w", err)
	}

	report := &models.HealthReport{Records: []models.HealthRecord{}}

	for _, subject := range subjects {
		records, err := s.healthRecords(ctx, subject, window)
		if err != nil {
			return nil, err
		}
		report.Records = append(report.Records, records...)
	}

	cost, err := s.aggregation.SumByTag(ctx, ownerUserID, models.TagTreatmentCost, &window)
	if err != nil {
		return nil, err
	}
	report.TreatmentCost = models.Money(cost)

	return report, nil
}

// healthRecords joins the four health tags of one animal by recording
// day. A day emits a record only when a health-date answer exists on
// it; the other three tags fill in whatever was recorded the same day,
// latest answer winning.
func (s *reportService) healthRecords(ctx context.Context, subject models.Subject, window models.Window) ([]models.HealthRecord, error) {
	opts := repositories.ScanOptions{Window: &window}

	dates, err := s.answerRepo.Scan(ctx, subject, models.TagHealthDate, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan health dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	disease, err := s.latestPerDay(ctx, subject, models.TagDisease, opts)
	if err != nil {
		return nil, err
	}
	treatment, err := s.latestPerDay(ctx, subject, models.TagTreatment, opts)
	if err != nil {
		return nil, err
	}
	milkLoss, err := s.latestPerDay(ctx, subject, models.TagMilkLoss, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var records []models.HealthRecord
	for _, d := range dates {
		day := models.DateKey(d.CreatedAt)
		if seen[day] {
			continue
		}
		seen[day] = true

		records = append(records, models.HealthRecord{
			AnimalNumber: subject.AnimalNumber,
			Date:         day,
			Disease:      disease[day],
			Treatment:    treatment[day],
			MilkLoss:     milkLoss[day],
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

// latestPerDay maps recording day to the day's authoritative value for
// a tag. Scans come back newest first, so the first value seen per day
// wins.
func (s *reportService) latestPerDay(ctx context.Context, subject models.Subject, tag models.Tag, opts repositories.ScanOptions) (map[string]string, error) {
	answers, err := s.answerRepo.Scan(ctx, subject, tag, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag %d: %w", int(tag), err)
	}

	byDay := make(map[string]string)
	for _, a := range answers {
		day := models.DateKey(a.CreatedAt)
		if _, ok := byDay[day]; !ok {
			byDay[day] = a.Value
		}
	}
	return byDay, nil
}

// ============================================================================
// Investment
// ============================================================================

func (s *reportService) Investment(ctx context.Context, ownerUserID uuid.UUID, lang string) (*models.InvestmentReport, error) {
	answers, err := s.answerRepo.ScanOwnerTag(ctx, ownerUserID, models.TagInvestment, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to scan investments: %w", err)
	}

	now := s.now()
	report := &models.InvestmentReport{Items: []models.InvestmentItem{}}

	var total float64
	for _, answer := range answers {
		amount, err := jsonutil.ParseScalar(answer.Value)
		if err != nil {
			s.logger.Warn("Skipping malformed investment amount",
				zap.String("answer_id", answer.ID.String()),
				zap.Error(err))
			continue
		}

		typeID, err := strconv.Atoi(answer.LogicValue)
		if err != nil {
			s.logger.Warn("Skipping investment with malformed type id",
				zap.String("answer_id", answer.ID.String()),
				zap.Error(err))
			continue
		}

		name, err := s.investmentTypeRepo.LocalizedName(ctx, typeID, lang)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			name = fmt.Sprintf("Type %d", typeID)
		}

		age := now.Sub(answer.CreatedAt).Hours() / (365 * 24)
		total += amount

		report.Items = append(report.Items, models.InvestmentItem{
			TypeID:     typeID,
			TypeName:   name,
			Amount:     models.Money(amount),
			AgeInYears: fmt.Sprintf("%.1f", age),
			RecordedAt: models.DateKey(answer.CreatedAt),
		})
	}

	report.Total = models.Money(total)
	return report, nil
}

// ============================================================================
// Breeding
// ============================================================================

func (s *reportService) Breeding(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int, window *models.Window) (*models.BreedingReport, error) {
	subjects, err := s.answerRepo.DistinctSubjects(ctx, ownerUserID, animalTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate herd for breeding report: %w", err)
	}

	report := &models.BreedingReport{Animals: []models.BreedingHistory{}}
	opts := repositories.ScanOptions{Window: window}

	for _, subject := range subjects {
		history, err := s.breedingHistory(ctx, subject, opts)
		if err != nil {
			return nil, err
		}
		if history != nil {
			report.Animals = append(report.Animals, *history)
		}
	}

	return report, nil
}

// breedingHistory assembles one animal's event lists. Returns nil when
// the animal has no breeding answers at all, so herd-wide reports skip
// animals without history.
func (s *reportService) breedingHistory(ctx context.Context, subject models.Subject, opts repositories.ScanOptions) (*models.BreedingHistory, error) {
	inseminations, err := s.answerRepo.Scan(ctx, subject, models.TagInseminationDate, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inseminations: %w", err)
	}
	deliveries, err := s.answerRepo.Scan(ctx, subject, models.TagDeliveryDate, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan deliveries: %w", err)
	}
	heats, err := s.answerRepo.Scan(ctx, subject, models.TagHeatDate, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan heats: %w", err)
	}

	if len(inseminations) == 0 && len(deliveries) == 0 && len(heats) == 0 {
		return nil, nil
	}

	// Mother->calf links keyed by recording day attach calf numbers to
	// deliveries recorded the same day.
	calfLinks, err := s.latestPerDay(ctx, subject, models.TagCalfNumber, opts)
	if err != nil {
		return nil, err
	}

	history := &models.BreedingHistory{
		AnimalNumber:  subject.AnimalNumber,
		Inseminations: []models.BreedingEvent{},
		Deliveries:    []models.DeliveryEvent{},
		Heats:         []models.BreedingEvent{},
	}

	for _, a := range inseminations {
		history.Inseminations = append(history.Inseminations, models.BreedingEvent{Date: eventDate(a)})
	}
	for _, a := range deliveries {
		history.Deliveries = append(history.Deliveries, models.DeliveryEvent{
			Date:       eventDate(a),
			CalfNumber: calfLinks[models.DateKey(a.CreatedAt)],
		})
	}
	for _, a := range heats {
		history.Heats = append(history.Heats, models.BreedingEvent{Date: eventDate(a)})
	}

	return history, nil
}

// eventDate prefers the recorded date value of a breeding answer and
// falls back to its recording day when the value is not a date.
func eventDate(a *models.Answer) string {
	if t, err := time.Parse("2006-01-02", a.Value); err == nil {
		return models.DateKey(t)
	}
	return models.DateKey(a.CreatedAt)
}
