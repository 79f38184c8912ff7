package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/jsonutil"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// AggregationService decodes JSON-encoded answer payloads and
// accumulates them over date windows. Accumulation stays in full
// float precision; rounding happens only when reports are assembled.
//
// A record whose payload fails to decode is skipped with a warning and
// never aborts the aggregate: reports stay computable over
// partially-malformed histories.
type AggregationService interface {
	// SumByTag accumulates the tag's answers over the window according
	// to the tag's role: amount*price entry lists for financial and
	// production tags, plain numeric values for scalar and metric tags.
	SumByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (float64, error)

	// CountByTag returns the number of matching answers in the window.
	CountByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (int, error)

	// AverageByTag is SumByTag divided by CountByTag, with the
	// denominator floored at 1 so an empty window averages to zero.
	AverageByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (float64, error)

	// SumDailyByTag accumulates the tag per calendar day, keyed
	// YYYY-MM-DD. Days without answers are absent from the map.
	SumDailyByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (map[string]float64, error)
}

type aggregationService struct {
	answerRepo repositories.AnswerRepository
	logger     *zap.Logger
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(answerRepo repositories.AnswerRepository, logger *zap.Logger) AggregationService {
	return &aggregationService{
		answerRepo: answerRepo,
		logger:     logger,
	}
}

var _ AggregationService = (*aggregationService)(nil)

func (s *aggregationService) SumByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (float64, error) {
	answers, err := s.answerRepo.ScanOwnerTag(ctx, ownerUserID, tag, window)
	if err != nil {
		return 0, fmt.Errorf("failed to scan tag %d for sum: %w", int(tag), err)
	}

	var sum float64
	for _, answer := range answers {
		v, err := s.decode(tag, answer)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum, nil
}

func (s *aggregationService) CountByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (int, error) {
	answers, err := s.answerRepo.ScanOwnerTag(ctx, ownerUserID, tag, window)
	if err != nil {
		return 0, fmt.Errorf("failed to scan tag %d for count: %w", int(tag), err)
	}
	return len(answers), nil
}

func (s *aggregationService) AverageByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (float64, error) {
	answers, err := s.answerRepo.ScanOwnerTag(ctx, ownerUserID, tag, window)
	if err != nil {
		return 0, fmt.Errorf("failed to scan tag %d for average: %w", int(tag), err)
	}

	var sum float64
	for _, answer := range answers {
		v, err := s.decode(tag, answer)
		if err != nil {
			continue
		}
		sum += v
	}

	count := len(answers)
	if count < 1 {
		count = 1
	}
	return sum / float64(count), nil
}

func (s *aggregationService) SumDailyByTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) (map[string]float64, error) {
	answers, err := s.answerRepo.ScanOwnerTag(ctx, ownerUserID, tag, window)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag %d for daily sum: %w", int(tag), err)
	}

	daily := make(map[string]float64)
	for _, answer := range answers {
		v, err := s.decode(tag, answer)
		if err != nil {
			continue
		}
		daily[models.DateKey(answer.CreatedAt)] += v
	}
	return daily, nil
}

// decode dispatches on the tag's role. Malformed payloads are logged
// and reported as errors so callers skip the record.
func (s *aggregationService) decode(tag models.Tag, answer *models.Answer) (float64, error) {
	var v float64
	var err error

	switch models.RoleOf(tag) {
	case models.RoleQualityMetric:
		v, err = jsonutil.ParseMetric(answer.Value)
	case models.RoleScalarExpense:
		v, err = jsonutil.ParseScalar(answer.Value)
	default:
		var items []jsonutil.LineItem
		items, err = jsonutil.ParseLineItems(answer.Value)
		if err == nil {
			v = jsonutil.Total(items)
		}
	}

	if err != nil {
		s.logger.Warn("Skipping malformed answer payload",
			zap.String("answer_id", answer.ID.String()),
			zap.Int("tag", int(tag)),
			zap.Error(err))
		return 0, err
	}
	return v, nil
}
