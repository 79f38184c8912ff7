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

// FarmerRepository resolves the outlet-assignment relation: which
// farmers answer to which business outlet, plus the registration date
// that anchors "all time" report windows.
type FarmerRepository interface {
	GetByID(ctx context.Context, farmerID uuid.UUID) (*models.Farmer, error)

	// ListByOutlet returns every farmer delegated to the outlet.
	ListByOutlet(ctx context.Context, outletID uuid.UUID) ([]*models.Farmer, error)

	// SearchByOutlet resolves delegated farmers matching the query by
	// exact phone or exact/partial name. Zero matches is a valid,
	// non-error outcome: the result is simply empty.
	SearchByOutlet(ctx context.Context, outletID uuid.UUID, query string) ([]*models.Farmer, error)
}

type farmerRepository struct {
	db *database.DB
}

// NewFarmerRepository creates a new FarmerRepository.
func NewFarmerRepository(db *database.DB) FarmerRepository {
	return &farmerRepository{db: db}
}

var _ FarmerRepository = (*farmerRepository)(nil)

const farmerColumns = `id, outlet_id, name, phone, registered_at`

func (r *farmerRepository) GetByID(ctx context.Context, farmerID uuid.UUID) (*models.Farmer, error) {
	query := fmt.Sprintf(`SELECT %s FROM farmers WHERE id = $1`, farmerColumns)

	farmer, err := scanFarmer(r.db.Pool.QueryRow(ctx, query, farmerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return farmer, nil
}

func (r *farmerRepository) ListByOutlet(ctx context.Context, outletID uuid.UUID) ([]*models.Farmer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM farmers
		WHERE outlet_id = $1
		ORDER BY name`, farmerColumns)

	rows, err := r.db.Pool.Query(ctx, query, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outlet farmers: %w", err)
	}
	defer rows.Close()

	return collectFarmers(rows)
}

func (r *farmerRepository) SearchByOutlet(ctx context.Context, outletID uuid.UUID, search string) ([]*models.Farmer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM farmers
		WHERE outlet_id = $1
		  AND (phone = $2 OR name = $2 OR name ILIKE '%%' || $2 || '%%')
		ORDER BY name`, farmerColumns)

	rows, err := r.db.Pool.Query(ctx, query, outletID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search outlet farmers: %w", err)
	}
	defer rows.Close()

	return collectFarmers(rows)
}

func collectFarmers(rows pgx.Rows) ([]*models.Farmer, error) {
	var farmers []*models.Farmer
	for rows.Next() {
		farmer, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		farmers = append(farmers, farmer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating farmers: %w", err)
	}

	return farmers, nil
}

func scanFarmer(row pgx.Row) (*models.Farmer, error) {
	var f models.Farmer

	err := row.Scan(&f.ID, &f.OutletID, &f.Name, &f.Phone, &f.RegisteredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan farmer: %w", err)
	}

	return &f, nil
}
