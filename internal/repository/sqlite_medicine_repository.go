package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medicine-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// sqliteMedicineRepository implements MedicineRepository on SQLite through sqlx.
type sqliteMedicineRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewSQLiteMedicineRepository creates a new SQLite-backed medicine repository.
func NewSQLiteMedicineRepository(db *sqlx.DB, logger zerolog.Logger) MedicineRepository {
	return &sqliteMedicineRepository{
		db:     db,
		logger: logger.With().Str("repository", "medicine").Str("driver", "sqlite").Logger(),
	}
}

func (r *sqliteMedicineRepository) List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error) {
	query, args := buildListQuery(q, sqliteDialect)

	medicines := []model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		r.logger.Error().Err(err).
			Str("search", q.Search).
			Str("manufacturer", q.Manufacturer).
			Msg("failed to query medicines")
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}

	return medicines, nil
}

func (r *sqliteMedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.GetContext(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug().Str("medicine_id", id.String()).Msg("medicine not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("medicine_id", id.String()).Msg("failed to query medicine")
		return nil, fmt.Errorf("failed to query medicine: %w", err)
	}

	return &m, nil
}

func (r *sqliteMedicineRepository) Create(ctx context.Context, m *model.Medicine) error {
	now := time.Now().UTC()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES (:id, :name, :price, :discount_price, :quantity, :manufacturer, :image_url, :created_at, :updated_at)
	`, m)
	if err != nil {
		r.logger.Error().Err(err).Str("name", m.Name).Msg("failed to insert medicine")
		return fmt.Errorf("failed to insert medicine: %w", err)
	}

	return nil
}

func (r *sqliteMedicineRepository) Update(ctx context.Context, m *model.Medicine) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m.UpdatedAt = time.Now().UTC()

	res, err := tx.NamedExecContext(ctx, `
		UPDATE medicines
		SET name = :name, price = :price, discount_price = :discount_price, quantity = :quantity,
			manufacturer = :manufacturer, image_url = :image_url, updated_at = :updated_at
		WHERE id = :id
	`, m)
	if err != nil {
		r.logger.Error().Err(err).Str("medicine_id", m.ID.String()).Msg("failed to update medicine")
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	} else if n == 0 {
		r.logger.Debug().Str("medicine_id", m.ID.String()).Msg("medicine to update not found")
		return model.ErrMedicineNotFound
	}

	if err := tx.GetContext(ctx, &m.CreatedAt, `SELECT created_at FROM medicines WHERE id = ?`, m.ID); err != nil {
		return fmt.Errorf("failed to read updated medicine: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error().Err(err).Str("medicine_id", m.ID.String()).Msg("failed to commit medicine update")
		return fmt.Errorf("failed to commit medicine update: %w", err)
	}

	return nil
}

func (r *sqliteMedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("medicine_id", id.String()).Msg("failed to delete medicine")
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	if n == 0 {
		r.logger.Debug().Str("medicine_id", id.String()).Msg("medicine to delete not found")
		return model.ErrMedicineNotFound
	}

	return nil
}

func (r *sqliteMedicineRepository) Manufacturers(ctx context.Context) ([]string, error) {
	manufacturers := []string{}
	err := r.db.SelectContext(ctx, &manufacturers, `
		SELECT DISTINCT manufacturer
		FROM medicines
		WHERE manufacturer <> ''
		ORDER BY manufacturer
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query manufacturers")
		return nil, fmt.Errorf("failed to query manufacturers: %w", err)
	}

	return manufacturers, nil
}
