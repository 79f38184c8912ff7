package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
	"github.com/farmbook-io/farmbook-engine/pkg/database"
)

// InvestmentTypeRepository is the localized name lookup for investment
// types, consumed read-only by the investment report.
type InvestmentTypeRepository interface {
	// LocalizedName returns the display name of an investment type in
	// the requested language, falling back to English before reporting
	// apperrors.ErrNotFound.
	LocalizedName(ctx context.Context, typeID int, lang string) (string, error)
}

type investmentTypeRepository struct {
	db *database.DB
}

// NewInvestmentTypeRepository creates a new InvestmentTypeRepository.
func NewInvestmentTypeRepository(db *database.DB) InvestmentTypeRepository {
	return &investmentTypeRepository{db: db}
}

var _ InvestmentTypeRepository = (*investmentTypeRepository)(nil)

func (r *investmentTypeRepository) LocalizedName(ctx context.Context, typeID int, lang string) (string, error) {
	query := `
		SELECT name
		FROM investment_type_names
		WHERE type_id = $1 AND lang = $2`

	var name string
	err := r.db.Pool.QueryRow(ctx, query, typeID, lang).Scan(&name)
	if err == pgx.ErrNoRows && lang != "en" {
		err = r.db.Pool.QueryRow(ctx, query, typeID, "en").Scan(&name)
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up investment type name: %w", err)
	}

	return name, nil
}
