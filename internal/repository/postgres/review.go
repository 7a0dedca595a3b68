package postgres

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type reviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedOn = time.Now().UTC()
	query := `INSERT INTO reviews (id, user_id, appliance_id, provider_id, rental_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("INSERT", "reviews", "reviewID", rv.ID, "applianceID", rv.ApplianceID)
	_, err := r.db.ExecContext(ctx, query, rv.ID, rv.UserID, rv.ApplianceID, rv.ProviderID, rv.RentalID, rv.Rating,
		rv.Comment, rv.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "reviewID", rv.ID)
	return mapError(err)
}

func (r *reviewRepository) ListByAppliance(ctx context.Context, applianceID string, page, pageSize int32) ([]domain.Review, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reviews WHERE appliance_id = $1`, applianceID).Scan(&count)
	if err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT rv.id, rv.user_id, u.name, rv.appliance_id, rv.provider_id, rv.rental_id, rv.rating, rv.comment, rv.created_on
	          FROM reviews rv JOIN users u ON u.id = rv.user_id
	          WHERE rv.appliance_id = $1 ORDER BY rv.created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, applianceID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.ApplianceID, &rv.ProviderID, &rv.RentalID, &rv.Rating,
			&rv.Comment, &rv.CreatedOn); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, count, rows.Err()
}

// RatingSummary returns the average rating rounded to two decimals and the review count.
func (r *reviewRepository) RatingSummary(ctx context.Context, applianceID string) (float64, int32, error) {
	var avg float64
	var count int32
	query := `SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8, count(*) FROM reviews WHERE appliance_id = $1`
	err := r.db.QueryRowContext(ctx, query, applianceID).Scan(&avg, &count)
	return avg, count, mapError(err)
}
