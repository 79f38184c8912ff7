package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// ClassificationService derives livestock category and
// reproductive/lactation state from resolved tags. It is a pure
// function over the answer log, evaluated per request; nothing is
// persisted.
type ClassificationService interface {
	// Classify derives the state of one animal instance.
	Classify(ctx context.Context, subject models.Subject) (*models.Classification, error)

	// ClassifyHerd classifies every animal instance of the owner and
	// folds the results into bucket counts. The buckets partition the
	// herd: every instance lands in exactly one of bull/heifer/cow.
	// animalTypeID of zero covers all animal types.
	ClassifyHerd(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int) (*models.HerdSummary, error)
}

type classificationService struct {
	resolver   TagResolver
	answerRepo repositories.AnswerRepository
	logger     *zap.Logger
}

// NewClassificationService creates a new ClassificationService.
func NewClassificationService(resolver TagResolver, answerRepo repositories.AnswerRepository, logger *zap.Logger) ClassificationService {
	return &classificationService{
		resolver:   resolver,
		answerRepo: answerRepo,
		logger:     logger,
	}
}

var _ ClassificationService = (*classificationService)(nil)

// Classify applies the category precedence rules:
//
//  1. Gender "male" wins outright: the animal is a bull and no
//     reproductive or lactation state is computed.
//  2. Otherwise a life-stage answer whose logic value is "calf" makes
//     the animal a heifer. Heifers get a reproductive status from the
//     pregnancy tag but never a lactation status.
//  3. Everything else is a cow with reproductive and lactation state
//     computed independently, each defaulting to the negative state
//     when unanswered.
//
// An animal with neither a gender nor a life-stage answer is a cow by
// business default, not unknown. Flagged for product review: a truly
// unanswered animal silently classifies as a fully-specified adult
// female.
func (s *classificationService) Classify(ctx context.Context, subject models.Subject) (*models.Classification, error) {
	gender, err := s.resolver.ResolveLatest(ctx, subject, models.TagGender)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gender: %w", err)
	}

	if gender != nil && strings.EqualFold(gender.Value, "male") {
		return &models.Classification{
			Subject:  subject,
			Category: models.CategoryBull,
		}, nil
	}

	lifeStage, err := s.resolver.ResolveLatest(ctx, subject, models.TagLifeStage)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve life stage: %w", err)
	}

	if lifeStage != nil && strings.EqualFold(lifeStage.LogicValue, "calf") {
		repro, err := s.reproductiveStatus(ctx, subject)
		if err != nil {
			return nil, err
		}
		return &models.Classification{
			Subject:            subject,
			Category:           models.CategoryHeifer,
			ReproductiveStatus: repro,
		}, nil
	}

	repro, err := s.reproductiveStatus(ctx, subject)
	if err != nil {
		return nil, err
	}
	lactation, err := s.lactationStatus(ctx, subject)
	if err != nil {
		return nil, err
	}

	return &models.Classification{
		Subject:            subject,
		Category:           models.CategoryCow,
		ReproductiveStatus: repro,
		LactationStatus:    lactation,
	}, nil
}

func (s *classificationService) ClassifyHerd(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int) (*models.HerdSummary, error) {
	subjects, err := s.answerRepo.DistinctSubjects(ctx, ownerUserID, animalTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate herd: %w", err)
	}

	summary := &models.HerdSummary{
		OwnerUserID:  ownerUserID,
		AnimalTypeID: animalTypeID,
		Total:        len(subjects),
	}

	for _, subject := range subjects {
		c, err := s.Classify(ctx, subject)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s: %w", subject, err)
		}

		switch c.Category {
		case models.CategoryBull:
			summary.Bulls++
		case models.CategoryHeifer:
			summary.Heifers++
			if c.ReproductiveStatus == models.ReproductivePregnant {
				summary.PregnantHeifers++
			}
		case models.CategoryCow:
			summary.Cows++
			if c.ReproductiveStatus == models.ReproductivePregnant {
				summary.PregnantCows++
			}
			if c.LactationStatus == models.LactationMilking {
				summary.MilkingCows++
			} else {
				summary.DryCows++
			}
		}
	}

	return summary, nil
}

// reproductiveStatus maps the pregnancy tag to pregnant/non-pregnant,
// defaulting to non-pregnant when unanswered.
func (s *classificationService) reproductiveStatus(ctx context.Context, subject models.Subject) (string, error) {
	pregnant, err := s.resolver.ResolveLatest(ctx, subject, models.TagPregnant)
	if err != nil {
		return "", fmt.Errorf("failed to resolve pregnancy: %w", err)
	}

	if pregnant != nil && strings.EqualFold(pregnant.Value, "yes") {
		return models.ReproductivePregnant, nil
	}
	return models.ReproductiveNonPregnant, nil
}

// lactationStatus maps the lactation tag to milking/dry, defaulting to
// dry when unanswered.
func (s *classificationService) lactationStatus(ctx context.Context, subject models.Subject) (string, error) {
	lactating, err := s.resolver.ResolveLatest(ctx, subject, models.TagLactating)
	if err != nil {
		return "", fmt.Errorf("failed to resolve lactation: %w", err)
	}

	if lactating != nil && strings.EqualFold(lactating.Value, "yes") {
		return models.LactationMilking, nil
	}
	return models.LactationDry, nil
}
