package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const rentalColumns = `id, user_id, appliance_id, provider_id, start_date, end_date, status, total_amount, deposit,
	payment_status, payment_method, payment_reference, delivery_address, delivery_time, has_review, created_on, updated_on`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var address []byte
	err := row.Scan(&rt.ID, &rt.UserID, &rt.ApplianceID, &rt.ProviderID, &rt.StartDate, &rt.EndDate, &rt.Status,
		&rt.TotalAmount, &rt.Deposit, &rt.PaymentStatus, &rt.PaymentMethod, &rt.PaymentReference, &address,
		&rt.DeliveryTime, &rt.HasReview, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &rt.DeliveryAddress); err != nil {
			return nil, fmt.Errorf("failed to decode delivery address: %w", err)
		}
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "applianceID", rt.ApplianceID, "userID", rt.UserID)
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	address, err := json.Marshal(rt.DeliveryAddress)
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.Create", err, "reason", "failed to marshal address")
		return err
	}
	now := time.Now().UTC()
	rt.CreatedOn, rt.UpdatedOn = now, now

	query := `INSERT INTO rentals (id, user_id, appliance_id, provider_id, start_date, end_date, status, total_amount, deposit,
	          payment_status, payment_method, payment_reference, delivery_address, delivery_time, has_review, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	logger.DatabaseCall("INSERT", "rentals", "rentalID", rt.ID)
	_, err = r.db.ExecContext(ctx, query, rt.ID, rt.UserID, rt.ApplianceID, rt.ProviderID, rt.StartDate, rt.EndDate, rt.Status,
		rt.TotalAmount, rt.Deposit, rt.PaymentStatus, rt.PaymentMethod, rt.PaymentReference, address, rt.DeliveryTime,
		rt.HasReview, rt.CreatedOn, rt.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("rentalRepository.Create", err, "rentalID", rt.ID)
		return err
	}
	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "rentals", "rentalID", id)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, payment_status=$2, has_review=$3, updated_on=$4 WHERE id=$5`
	logger.DatabaseCall("UPDATE", "rentals", "rentalID", rt.ID, "status", rt.Status)
	result, err := r.db.ExecContext(ctx, query, rt.Status, rt.PaymentStatus, rt.HasReview, rt.UpdatedOn, rt.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return mapError(err)
	}
	return checkAffected(result, "rental", rt.ID)
}

func (r *rentalRepository) CountHoldingByAppliance(ctx context.Context, applianceID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM rentals WHERE appliance_id = $1 AND status = ANY($2)`
	err := r.db.QueryRowContext(ctx, query, applianceID, pq.Array(statusStrings(domain.HoldingRentalStatuses))).Scan(&count)
	return count, mapError(err)
}

func (r *rentalRepository) FindCompletedForReview(ctx context.Context, userID, applianceID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE user_id = $1 AND appliance_id = $2 AND status = 'COMPLETED'
	          ORDER BY updated_on DESC LIMIT 1 FOR UPDATE`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, userID, applianceID))
	if err != nil {
		return nil, mapRowError(err, "completed rental for appliance", applianceID)
	}
	return rt, nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, userID string, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	return r.list(ctx, "user_id", userID, filter)
}

func (r *rentalRepository) ListByProvider(ctx context.Context, providerID string, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	return r.list(ctx, "provider_id", providerID, filter)
}

func (r *rentalRepository) list(ctx context.Context, ownerColumn, ownerID string, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	where := ` WHERE ` + ownerColumn + ` = $1`
	args := []any{ownerID}
	argIdx := 2
	if len(filter.Statuses) > 0 {
		where += " AND status = ANY($2)"
		args = append(args, pq.Array(statusStrings(filter.Statuses)))
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM rentals"+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := "SELECT " + rentalColumns + " FROM rentals" + where +
		fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, domain.Offset(filter.Page, filter.PageSize))

	rentals, err := r.query(ctx, query, args...)
	return rentals, count, err
}

func (r *rentalRepository) ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY created_on DESC LIMIT $1`, limit)
}

func (r *rentalRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status IN ('APPROVED', 'ACTIVE') AND end_date >= $1 AND end_date < $2
	          ORDER BY end_date`
	return r.query(ctx, query, from, to)
}

func (r *rentalRepository) query(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
