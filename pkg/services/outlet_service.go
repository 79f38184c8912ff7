package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/logging"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// OutletSelector scopes an outlet dashboard. An empty Search selects
// every delegated farmer; otherwise farmers are resolved by exact
// phone or exact/partial name match. A nil Window means "all time",
// which anchors each farmer's own window at their registration date.
type OutletSelector struct {
	Search       string
	Window       *models.Window
	AnimalTypeID int
}

// OutletService folds per-farmer classification and financial reports
// into an outlet-wide dashboard for a business-outlet principal.
type OutletService interface {
	// Dashboard resolves the delegated farmer set and sums bucket
	// counts and monetary aggregates across it. A search selector
	// matching zero farmers yields a no-match dashboard, not an error.
	// A farmer whose report fails is logged and skipped; the rollup
	// continues over the rest.
	Dashboard(ctx context.Context, outletID uuid.UUID, selector OutletSelector) (*models.OutletDashboard, error)
}

type outletService struct {
	farmerRepo     repositories.FarmerRepository
	classification ClassificationService
	reports        ReportService
	logger         *zap.Logger
}

// NewOutletService creates a new OutletService.
func NewOutletService(
	farmerRepo repositories.FarmerRepository,
	classification ClassificationService,
	reports ReportService,
	logger *zap.Logger,
) OutletService {
	return &outletService{
		farmerRepo:     farmerRepo,
		classification: classification,
		reports:        reports,
		logger:         logger,
	}
}

var _ OutletService = (*outletService)(nil)

func (s *outletService) Dashboard(ctx context.Context, outletID uuid.UUID, selector OutletSelector) (*models.OutletDashboard, error) {
	var farmers []*models.Farmer
	var err error

	if selector.Search == "" {
		farmers, err = s.farmerRepo.ListByOutlet(ctx, outletID)
	} else {
		s.logger.Debug("Resolving outlet farmers by search",
			zap.String("outlet_id", outletID.String()),
			zap.String("search", logging.RedactPhone(selector.Search)))
		farmers, err = s.farmerRepo.SearchByOutlet(ctx, outletID, selector.Search)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve outlet farmers: %w", err)
	}

	dashboard := &models.OutletDashboard{
		OutletID: outletID,
		Herd:     models.HerdSummary{AnimalTypeID: selector.AnimalTypeID},
		Farmers:  []models.FarmerDashboard{},
	}

	if len(farmers) == 0 {
		dashboard.NoMatch = selector.Search != ""
		empty := models.EmptyProfitLoss()
		dashboard.TotalIncome = empty.TotalIncome
		dashboard.TotalExpense = empty.TotalExpense
		dashboard.Profit = empty.Profit
		dashboard.Loss = empty.Loss
		return dashboard, nil
	}

	totals := &ProfitLossTotals{}
	for _, farmer := range farmers {
		window := selector.Window
		if window == nil {
			allTime := models.AllTime(farmer.RegisteredAt)
			window = &allTime
		}

		herd, err := s.classification.ClassifyHerd(ctx, farmer.ID, selector.AnimalTypeID)
		if err != nil {
			s.logger.Warn("Skipping farmer in outlet rollup: classification failed",
				zap.String("farmer_id", farmer.ID.String()),
				zap.Error(err))
			continue
		}

		farmerTotals, err := s.reports.ProfitLossTotals(ctx, farmer.ID, window)
		if err != nil {
			s.logger.Warn("Skipping farmer in outlet rollup: profit/loss failed",
				zap.String("farmer_id", farmer.ID.String()),
				zap.Error(err))
			continue
		}

		dashboard.FarmerCount++
		foldHerd(&dashboard.Herd, herd)
		totals.Income += farmerTotals.Income
		totals.Expense += farmerTotals.Expense
		totals.OperationalIncome += farmerTotals.OperationalIncome
		totals.OperationalExpense += farmerTotals.OperationalExpense
		totals.BreedingExpense += farmerTotals.BreedingExpense

		dashboard.Farmers = append(dashboard.Farmers, models.FarmerDashboard{
			FarmerID:   farmer.ID,
			FarmerName: farmer.Name,
			Herd:       *herd,
			ProfitLoss: farmerTotals.Report(),
		})
	}

	report := totals.Report()
	dashboard.TotalIncome = report.TotalIncome
	dashboard.TotalExpense = report.TotalExpense
	dashboard.Profit = report.Profit
	dashboard.Loss = report.Loss

	return dashboard, nil
}

// foldHerd adds one farmer's bucket counts into the outlet totals.
func foldHerd(into *models.HerdSummary, herd *models.HerdSummary) {
	into.Total += herd.Total
	into.Bulls += herd.Bulls
	into.Heifers += herd.Heifers
	into.Cows += herd.Cows
	into.PregnantHeifers += herd.PregnantHeifers
	into.PregnantCows += herd.PregnantCows
	into.MilkingCows += herd.MilkingCows
	into.DryCows += herd.DryCows
}
