package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
	"github.com/farmbook-io/farmbook-engine/pkg/database"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
)

// QuestionRepository provides data access for questions. The engine
// reads questions only to denormalize the tag onto submitted answers;
// question CRUD belongs to the display layer.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, questionID uuid.UUID) (*models.Question, error)
	GetByTag(ctx context.Context, tag models.Tag) (*models.Question, error)
	List(ctx context.Context) ([]*models.Question, error)
}

type questionRepository struct {
	db *database.DB
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db *database.DB) QuestionRepository {
	return &questionRepository{db: db}
}

var _ QuestionRepository = (*questionRepository)(nil)

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}

	query := `
		INSERT INTO questions (id, tag, category, subcategory, validation_rule, text)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Pool.Exec(ctx, query,
		question.ID,
		int(question.Tag),
		question.Category,
		nullString(question.Subcategory),
		nullString(question.ValidationRule),
		question.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	query := `
		SELECT id, tag, category, subcategory, validation_rule, text
		FROM questions
		WHERE id = $1`

	question, err := scanQuestion(r.db.Pool.QueryRow(ctx, query, questionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return question, nil
}

func (r *questionRepository) GetByTag(ctx context.Context, tag models.Tag) (*models.Question, error) {
	query := `
		SELECT id, tag, category, subcategory, validation_rule, text
		FROM questions
		WHERE tag = $1`

	question, err := scanQuestion(r.db.Pool.QueryRow(ctx, query, int(tag)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return question, nil
}

func (r *questionRepository) List(ctx context.Context) ([]*models.Question, error) {
	query := `
		SELECT id, tag, category, subcategory, validation_rule, text
		FROM questions
		ORDER BY tag`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	var tag int
	var subcategory, validationRule *string

	err := row.Scan(&q.ID, &tag, &q.Category, &subcategory, &validationRule, &q.Text)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}

	q.Tag = models.Tag(tag)
	if subcategory != nil {
		q.Subcategory = *subcategory
	}
	if validationRule != nil {
		q.ValidationRule = *validationRule
	}

	return &q, nil
}
