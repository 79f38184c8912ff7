package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmbook-io/farmbook-engine/pkg/database"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
)

// ScanOptions narrows an answer scan. The zero value scans the full
// history of active answers.
type ScanOptions struct {
	// Window restricts the scan to answers whose created_at calendar
	// day falls inside the window.
	Window *models.Window
	// IncludeExcluded also returns excluded and soft-deleted rows.
	IncludeExcluded bool
}

// AnswerRepository is the append-only store of tagged, time-stamped
// answers. Scans return answers newest first, ordered by created_at
// and then by insert sequence, so equal timestamps resolve
// deterministically to the later insert.
type AnswerRepository interface {
	// Append inserts one answer. Duplicate tag submissions are valid;
	// they are history, not conflicts.
	Append(ctx context.Context, answer *models.Answer) error

	// AppendBatch inserts answers inside the caller's transaction so a
	// submission lands all-or-nothing.
	AppendBatch(ctx context.Context, tx pgx.Tx, answers []*models.Answer) error

	// Scan returns a subject's answers for one tag, newest first.
	Scan(ctx context.Context, subject models.Subject, tag models.Tag, opts ScanOptions) ([]*models.Answer, error)

	// ScanOwnerTag returns all of an owner's active answers for one tag
	// across every animal, newest first. Aggregation issues one such
	// scan per tag per report.
	ScanOwnerTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) ([]*models.Answer, error)

	// DistinctSubjects enumerates an owner's animal instances.
	// animalTypeID of zero means all animal types.
	DistinctSubjects(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int) ([]models.Subject, error)

	// RestateAnimalNumber rewrites historic restated-number answers
	// (tag 6) whose value disagrees with the canonical identifier.
	// Data repair only: created_at ordering is preserved. Returns the
	// number of rows rewritten.
	RestateAnimalNumber(ctx context.Context, subject models.Subject, canonical string) (int64, error)
}

type answerRepository struct {
	db *database.DB
}

// NewAnswerRepository creates a new AnswerRepository backed by the
// given pool.
func NewAnswerRepository(db *database.DB) AnswerRepository {
	return &answerRepository{db: db}
}

var _ AnswerRepository = (*answerRepository)(nil)

const answerColumns = `id, seq, owner_user_id, animal_type_id, animal_number,
	       question_id, tag, value, logic_value, status, created_at, deleted_at`

func (r *answerRepository) Append(ctx context.Context, answer *models.Answer) error {
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	if answer.Status == "" {
		answer.Status = models.AnswerStatusNormal
	}

	query := `
		INSERT INTO answers (
			id, owner_user_id, animal_type_id, animal_number,
			question_id, tag, value, logic_value, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`

	err := r.db.Pool.QueryRow(ctx, query,
		answer.ID,
		answer.OwnerUserID,
		answer.AnimalTypeID,
		answer.AnimalNumber,
		answer.QuestionID,
		int(answer.Tag),
		answer.Value,
		nullString(answer.LogicValue),
		answer.Status,
		answer.CreatedAt,
	).Scan(&answer.Seq)
	if err != nil {
		return fmt.Errorf("failed to append answer: %w", err)
	}

	return nil
}

func (r *answerRepository) AppendBatch(ctx context.Context, tx pgx.Tx, answers []*models.Answer) error {
	query := `
		INSERT INTO answers (
			id, owner_user_id, animal_type_id, animal_number,
			question_id, tag, value, logic_value, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`

	for _, answer := range answers {
		if answer.ID == uuid.Nil {
			answer.ID = uuid.New()
		}
		if answer.CreatedAt.IsZero() {
			answer.CreatedAt = time.Now()
		}
		if answer.Status == "" {
			answer.Status = models.AnswerStatusNormal
		}

		err := tx.QueryRow(ctx, query,
			answer.ID,
			answer.OwnerUserID,
			answer.AnimalTypeID,
			answer.AnimalNumber,
			answer.QuestionID,
			int(answer.Tag),
			answer.Value,
			nullString(answer.LogicValue),
			answer.Status,
			answer.CreatedAt,
		).Scan(&answer.Seq)
		if err != nil {
			return fmt.Errorf("failed to append answer in batch: %w", err)
		}
	}

	return nil
}

func (r *answerRepository) Scan(ctx context.Context, subject models.Subject, tag models.Tag, opts ScanOptions) ([]*models.Answer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM answers
		WHERE owner_user_id = $1 AND animal_type_id = $2
		  AND animal_number = $3 AND tag = $4`, answerColumns)

	args := []any{subject.OwnerUserID, subject.AnimalTypeID, subject.AnimalNumber, int(tag)}

	if !opts.IncludeExcluded {
		query += ` AND status = 'normal' AND deleted_at IS NULL`
	}
	if opts.Window != nil {
		query += fmt.Sprintf(` AND created_at::date >= $%d::date AND created_at::date <= $%d::date`,
			len(args)+1, len(args)+2)
		args = append(args, opts.Window.From, opts.Window.To)
	}

	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan answers: %w", err)
	}
	defer rows.Close()

	return collectAnswers(rows)
}

func (r *answerRepository) ScanOwnerTag(ctx context.Context, ownerUserID uuid.UUID, tag models.Tag, window *models.Window) ([]*models.Answer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM answers
		WHERE owner_user_id = $1 AND tag = $2
		  AND status = 'normal' AND deleted_at IS NULL`, answerColumns)

	args := []any{ownerUserID, int(tag)}

	if window != nil {
		query += ` AND created_at::date >= $3::date AND created_at::date <= $4::date`
		args = append(args, window.From, window.To)
	}

	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan answers by owner and tag: %w", err)
	}
	defer rows.Close()

	return collectAnswers(rows)
}

func (r *answerRepository) DistinctSubjects(ctx context.Context, ownerUserID uuid.UUID, animalTypeID int) ([]models.Subject, error) {
	query := `
		SELECT DISTINCT owner_user_id, animal_type_id, animal_number
		FROM answers
		WHERE owner_user_id = $1
		  AND status = 'normal' AND deleted_at IS NULL`

	args := []any{ownerUserID}
	if animalTypeID != 0 {
		query += ` AND animal_type_id = $2`
		args = append(args, animalTypeID)
	}

	query += ` ORDER BY animal_type_id, animal_number`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.OwnerUserID, &s.AnimalTypeID, &s.AnimalNumber); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

func (r *answerRepository) RestateAnimalNumber(ctx context.Context, subject models.Subject, canonical string) (int64, error) {
	query := `
		UPDATE answers
		SET value = $4
		WHERE owner_user_id = $1 AND animal_type_id = $2
		  AND animal_number = $3 AND tag = $5
		  AND value <> $4`

	result, err := r.db.Pool.Exec(ctx, query,
		subject.OwnerUserID,
		subject.AnimalTypeID,
		subject.AnimalNumber,
		canonical,
		int(models.TagAnimalNumber),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to restate animal number: %w", err)
	}

	return result.RowsAffected(), nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func collectAnswers(rows pgx.Rows) ([]*models.Answer, error) {
	var answers []*models.Answer
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return answers, nil
}

func scanAnswer(row pgx.Row) (*models.Answer, error) {
	var a models.Answer
	var tag int
	var logicValue *string

	err := row.Scan(
		&a.ID,
		&a.Seq,
		&a.OwnerUserID,
		&a.AnimalTypeID,
		&a.AnimalNumber,
		&a.QuestionID,
		&tag,
		&a.Value,
		&logicValue,
		&a.Status,
		&a.CreatedAt,
		&a.DeletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan answer: %w", err)
	}

	a.Tag = models.Tag(tag)
	if logicValue != nil {
		a.LogicValue = *logicValue
	}

	return &a, nil
}

// nullString returns nil if the string is empty, otherwise returns the string pointer.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
