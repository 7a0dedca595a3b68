package postgres

import (
	"context"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"
)

type statsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) repository.StatsRepository {
	return &statsRepository{db: db}
}

// Counts returns platform totals. Revenue excludes cancelled and rejected rentals.
func (r *statsRepository) Counts(ctx context.Context) (*domain.PlatformStats, error) {
	s := &domain.PlatformStats{}
	query := `SELECT
	            (SELECT count(*) FROM users WHERE role = 'USER'),
	            (SELECT count(*) FROM users WHERE role = 'PROVIDER'),
	            (SELECT count(*) FROM appliances WHERE deleted_on IS NULL),
	            (SELECT count(*) FROM rentals),
	            (SELECT count(*) FROM rentals WHERE status = 'ACTIVE'),
	            (SELECT COALESCE(SUM(total_amount), 0) FROM rentals WHERE status NOT IN ('CANCELLED', 'REJECTED'))`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Users, &s.Providers, &s.Appliances, &s.Rentals, &s.ActiveRentals, &s.Revenue)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *statsRepository) PopularCategories(ctx context.Context, limit int32) ([]domain.CategoryCount, error) {
	query := `SELECT c.id, c.name, count(r.id)
	          FROM categories c
	          LEFT JOIN appliances a ON a.category_id = c.id
	          LEFT JOIN rentals r ON r.appliance_id = a.id
	          GROUP BY c.id, c.name
	          ORDER BY count(r.id) DESC, c.name
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.Name, &cc.Rentals); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}
