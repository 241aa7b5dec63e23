package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medicine-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// medicineRepository implements the MedicineRepository interface using PostgreSQL.
type medicineRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMedicineRepository creates a new PostgreSQL-backed medicine repository.
func NewMedicineRepository(pool *pgxpool.Pool, logger zerolog.Logger) MedicineRepository {
	return &medicineRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "medicine").Str("driver", "postgres").Logger(),
	}
}

func scanMedicine(row pgx.Row, m *model.Medicine) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.Price,
		&m.DiscountPrice,
		&m.Quantity,
		&m.Manufacturer,
		&m.ImageURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

// List retrieves medicines matching the query filters in the query sort order.
func (r *medicineRepository) List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error) {
	query, args := buildListQuery(q, postgresDialect)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("search", q.Search).
			Str("manufacturer", q.Manufacturer).
			Msg("failed to query medicines")
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}
	defer rows.Close()

	medicines := []model.Medicine{}
	for rows.Next() {
		var m model.Medicine
		if err := scanMedicine(rows, &m); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan medicine row")
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating medicine rows")
		return nil, fmt.Errorf("error iterating medicines: %w", err)
	}

	return medicines, nil
}

// GetByID retrieves a single medicine by its ID.
func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	var m model.Medicine
	if err := scanMedicine(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("medicine_id", id.String()).Msg("medicine not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("medicine_id", id.String()).Msg("failed to query medicine")
		return nil, fmt.Errorf("failed to query medicine: %w", err)
	}

	return &m, nil
}

// Create inserts a new medicine, assigning its ID and timestamps.
func (r *medicineRepository) Create(ctx context.Context, m *model.Medicine) error {
	query := `
		INSERT INTO medicines (` + medicineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Name, m.Price, m.DiscountPrice, m.Quantity,
		m.Manufacturer, m.ImageURL, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", m.Name).Msg("failed to insert medicine")
		return fmt.Errorf("failed to insert medicine: %w", err)
	}

	return nil
}

// Update overwrites the stored medicine with m.
func (r *medicineRepository) Update(ctx context.Context, m *model.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, price = $3, discount_price = $4, quantity = $5,
			manufacturer = $6, image_url = $7, updated_at = $8
		WHERE id = $1
		RETURNING created_at
	`

	m.UpdatedAt = time.Now().UTC()

	err := r.pool.QueryRow(ctx, query,
		m.ID, m.Name, m.Price, m.DiscountPrice, m.Quantity,
		m.Manufacturer, m.ImageURL, m.UpdatedAt,
	).Scan(&m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("medicine_id", m.ID.String()).Msg("medicine to update not found")
			return model.ErrMedicineNotFound
		}
		r.logger.Error().Err(err).Str("medicine_id", m.ID.String()).Msg("failed to update medicine")
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	return nil
}

// Delete removes the medicine with id.
func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("medicine_id", id.String()).Msg("failed to delete medicine")
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("medicine_id", id.String()).Msg("medicine to delete not found")
		return model.ErrMedicineNotFound
	}

	return nil
}

// Manufacturers returns the distinct non-empty manufacturers in name order.
func (r *medicineRepository) Manufacturers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT manufacturer
		FROM medicines
		WHERE manufacturer <> ''
		ORDER BY manufacturer
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query manufacturers")
		return nil, fmt.Errorf("failed to query manufacturers: %w", err)
	}

	manufacturers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to collect manufacturers")
		return nil, fmt.Errorf("failed to collect manufacturers: %w", err)
	}

	return manufacturers, nil
}
