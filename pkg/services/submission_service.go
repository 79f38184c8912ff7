package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
	"github.com/farmbook-io/farmbook-engine/pkg/database"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// AnswerInput is one answer of a submission batch.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id"`
	Value      string    `json:"value"`
	LogicValue string    `json:"logic_value,omitempty"`
}

// SubmissionInput is a batch of answers recorded for one animal on one
// date.
type SubmissionInput struct {
	OwnerUserID  uuid.UUID     `json:"owner_user_id"`
	AnimalTypeID int           `json:"animal_type_id"`
	AnimalNumber string        `json:"animal_number"`
	RecordedAt   time.Time     `json:"recorded_at,omitempty"` // zero means now
	Answers      []AnswerInput `json:"answers"`
}

// Subject returns the animal-instance key the batch is recorded for.
func (in *SubmissionInput) Subject() models.Subject {
	return models.Subject{
		OwnerUserID:  in.OwnerUserID,
		AnimalTypeID: in.AnimalTypeID,
		AnimalNumber: in.AnimalNumber,
	}
}

// TxRunner runs a function inside a single database transaction.
// Satisfied by *database.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

var _ TxRunner = (*database.DB)(nil)

// SubmissionService is the only writer of the answer log. Each batch
// lands inside one transaction so partial submissions can never
// corrupt later latest-wins resolution.
type SubmissionService interface {
	// SubmitAnswers appends the batch atomically, denormalizing each
	// question's tag onto its answer, then invalidates the resolver
	// cache for the touched tags.
	SubmitAnswers(ctx context.Context, input *SubmissionInput) ([]*models.Answer, error)

	// ReconcileAnimalNumbers rewrites historic restated-number answers
	// that disagree with the subject's canonical animal number. Data
	// repair, not a business rule; created_at ordering is preserved.
	ReconcileAnimalNumbers(ctx context.Context, subject models.Subject) (int64, error)
}

type submissionService struct {
	db           TxRunner
	answerRepo   repositories.AnswerRepository
	questionRepo repositories.QuestionRepository
	resolver     TagResolver
	logger       *zap.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	db TxRunner,
	answerRepo repositories.AnswerRepository,
	questionRepo repositories.QuestionRepository,
	resolver TagResolver,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		db:           db,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		resolver:     resolver,
		logger:       logger,
	}
}

var _ SubmissionService = (*submissionService)(nil)

func (s *submissionService) SubmitAnswers(ctx context.Context, input *SubmissionInput) ([]*models.Answer, error) {
	if len(input.Answers) == 0 {
		return nil, apperrors.ErrEmptyBatch
	}

	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	answers := make([]*models.Answer, 0, len(input.Answers))
	tags := make([]models.Tag, 0, len(input.Answers))
	for _, in := range input.Answers {
		question, err := s.questionRepo.GetByID(ctx, in.QuestionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("question %s: %w", in.QuestionID, apperrors.ErrUnknownTag)
			}
			return nil, fmt.Errorf("failed to load question %s: %w", in.QuestionID, err)
		}

		answers = append(answers, &models.Answer{
			ID:           uuid.New(),
			OwnerUserID:  input.OwnerUserID,
			AnimalTypeID: input.AnimalTypeID,
			AnimalNumber: input.AnimalNumber,
			QuestionID:   question.ID,
			Tag:          question.Tag,
			Value:        in.Value,
			LogicValue:   in.LogicValue,
			Status:       models.AnswerStatusNormal,
			CreatedAt:    recordedAt,
		})
		tags = append(tags, question.Tag)
	}

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return s.answerRepo.AppendBatch(ctx, tx, answers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer batch: %w", err)
	}

	s.resolver.Invalidate(ctx, input.Subject(), tags)

	s.logger.Info("Answer batch submitted",
		zap.String("subject", input.Subject().String()),
		zap.Int("answers", len(answers)))

	return answers, nil
}

func (s *submissionService) ReconcileAnimalNumbers(ctx context.Context, subject models.Subject) (int64, error) {
	latest, err := s.resolver.ResolveLatest(ctx, subject, models.TagAnimalNumber)
	if err != nil {
		return 0, err
	}
	if latest == nil || latest.Value == subject.AnimalNumber {
		return 0, nil
	}

	rewritten, err := s.answerRepo.RestateAnimalNumber(ctx, subject, subject.AnimalNumber)
	if err != nil {
		return 0, err
	}

	if rewritten > 0 {
		s.resolver.Invalidate(ctx, subject, []models.Tag{models.TagAnimalNumber})
		s.logger.Info("Restated animal numbers reconciled",
			zap.String("subject", subject.String()),
			zap.Int64("rewritten", rewritten))
	}

	return rewritten, nil
}
