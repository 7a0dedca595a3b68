package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const applianceColumns = `a.id, a.name, a.description, a.category_id, a.images, a.provider_id, a.brand, a.model, a.year, a.specs_extra,
	a.price_daily, a.price_weekly, a.price_monthly, a.deposit, a.status, a.rating, a.review_count, a.created_on, a.updated_on, a.deleted_on`

const listingColumns = applianceColumns + `, u.id, u.name, u.business_name, u.is_verified, u.rating`

const listingFrom = ` FROM appliances a JOIN users u ON u.id = a.provider_id`

type applianceRepository struct {
	db DBTX
}

func NewApplianceRepository(db DBTX) repository.ApplianceRepository {
	return &applianceRepository{db: db}
}

func scanAppliance(row rowScanner, extra ...any) (*domain.Appliance, error) {
	a := &domain.Appliance{}
	var specs []byte
	var deletedOn sql.NullTime
	dest := []any{
		&a.ID, &a.Name, &a.Description, &a.CategoryID, pq.Array(&a.Images), &a.ProviderID,
		&a.Specifications.Brand, &a.Specifications.Model, &a.Specifications.Year, &specs,
		&a.Pricing.Daily, &a.Pricing.Weekly, &a.Pricing.Monthly, &a.Pricing.Deposit,
		&a.Status, &a.Rating, &a.ReviewCount, &a.CreatedOn, &a.UpdatedOn, &deletedOn,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &a.Specifications.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode specifications: %w", err)
		}
	}
	if deletedOn.Valid {
		a.DeletedOn = &deletedOn.Time
	}
	return a, nil
}

func scanListing(row rowScanner) (*domain.ApplianceListing, error) {
	var p domain.ProviderSummary
	a, err := scanAppliance(row, &p.ID, &p.Name, &p.BusinessName, &p.IsVerified, &p.Rating)
	if err != nil {
		return nil, err
	}
	return &domain.ApplianceListing{Appliance: *a, Provider: p}, nil
}

func marshalExtra(extra map[string]string) ([]byte, error) {
	if extra == nil {
		extra = map[string]string{}
	}
	return json.Marshal(extra)
}

func (r *applianceRepository) Create(ctx context.Context, a *domain.Appliance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Images == nil {
		a.Images = []string{}
	}
	extra, err := marshalExtra(a.Specifications.Extra)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CreatedOn, a.UpdatedOn = now, now

	query := `INSERT INTO appliances (id, name, description, category_id, images, provider_id, brand, model, year, specs_extra,
	          price_daily, price_weekly, price_monthly, deposit, status, rating, review_count, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	logger.DatabaseCall("INSERT", "appliances", "applianceID", a.ID, "providerID", a.ProviderID)
	_, err = r.db.ExecContext(ctx, query, a.ID, a.Name, a.Description, a.CategoryID, pq.Array(a.Images), a.ProviderID,
		a.Specifications.Brand, a.Specifications.Model, a.Specifications.Year, extra,
		a.Pricing.Daily, a.Pricing.Weekly, a.Pricing.Monthly, a.Pricing.Deposit,
		a.Status, a.Rating, a.ReviewCount, a.CreatedOn, a.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "applianceID", a.ID)
	return mapError(err)
}

func (r *applianceRepository) GetByID(ctx context.Context, id string) (*domain.Appliance, error) {
	query := `SELECT ` + applianceColumns + ` FROM appliances a WHERE a.id = $1 AND a.deleted_on IS NULL`
	a, err := scanAppliance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err, "appliance", id)
	}
	return a, nil
}

func (r *applianceRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Appliance, error) {
	query := `SELECT ` + applianceColumns + ` FROM appliances a WHERE a.id = $1 AND a.deleted_on IS NULL FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "appliances", "applianceID", id)
	a, err := scanAppliance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err, "appliance", id)
	}
	return a, nil
}

func (r *applianceRepository) Update(ctx context.Context, a *domain.Appliance) error {
	extra, err := marshalExtra(a.Specifications.Extra)
	if err != nil {
		return err
	}
	a.UpdatedOn = time.Now().UTC()
	query := `UPDATE appliances SET name=$1, description=$2, category_id=$3, images=$4, brand=$5, model=$6, year=$7, specs_extra=$8,
	          price_daily=$9, price_weekly=$10, price_monthly=$11, deposit=$12, updated_on=$13
	          WHERE id=$14 AND deleted_on IS NULL`
	result, err := r.db.ExecContext(ctx, query, a.Name, a.Description, a.CategoryID, pq.Array(a.Images),
		a.Specifications.Brand, a.Specifications.Model, a.Specifications.Year, extra,
		a.Pricing.Daily, a.Pricing.Weekly, a.Pricing.Monthly, a.Pricing.Deposit, a.UpdatedOn, a.ID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "appliance", a.ID)
}

func (r *applianceRepository) UpdateStatus(ctx context.Context, id string, expected, status domain.ApplianceStatus) error {
	query := `UPDATE appliances SET status = $1, updated_on = $2 WHERE id = $3 AND deleted_on IS NULL`
	args := []any{status, time.Now().UTC(), id}
	if expected != "" {
		query += ` AND status = $4`
		args = append(args, expected)
	}

	logger.DatabaseCall("UPDATE", "appliances", "applianceID", id, "status", status, "expected", expected)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "applianceID", id)
	if err != nil {
		return err
	}
	if rows == 0 {
		if expected != "" {
			return fmt.Errorf("%w: appliance %s is no longer %s", domain.ErrConflict, id, expected)
		}
		return notFound("appliance", id)
	}
	return nil
}

func (r *applianceRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int32) error {
	query := `UPDATE appliances SET rating = $1, review_count = $2, updated_on = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, rating, reviewCount, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "appliance", id)
}

func (r *applianceRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE appliances SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "appliance", id)
}

func (r *applianceRepository) ListByProvider(ctx context.Context, providerID string, page, pageSize int32) ([]domain.Appliance, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM appliances WHERE provider_id = $1 AND deleted_on IS NULL`, providerID).Scan(&count)
	if err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + applianceColumns + ` FROM appliances a WHERE a.provider_id = $1 AND a.deleted_on IS NULL
	          ORDER BY a.created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, providerID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var appliances []domain.Appliance
	for rows.Next() {
		a, err := scanAppliance(rows)
		if err != nil {
			return nil, 0, err
		}
		appliances = append(appliances, *a)
	}
	return appliances, count, rows.Err()
}

func (r *applianceRepository) Search(ctx context.Context, f domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error) {
	where := ` WHERE a.deleted_on IS NULL AND a.status = 'AVAILABLE'`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != "" {
		where += " AND a.category_id = " + arg(f.CategoryID)
	}
	if f.Search != "" {
		p := arg(likePattern(f.Search))
		where += fmt.Sprintf(" AND (a.name ILIKE %s OR a.description ILIKE %s OR a.brand ILIKE %s)", p, p, p)
	}
	if f.MinDaily != nil {
		where += " AND a.price_daily >= " + arg(*f.MinDaily)
	}
	if f.MaxDaily != nil {
		where += " AND a.price_daily <= " + arg(*f.MaxDaily)
	}
	if len(f.Brands) > 0 {
		where += " AND a.brand = ANY(" + arg(pq.Array(f.Brands)) + ")"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*)"+listingFrom+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := "SELECT " + listingColumns + listingFrom + where +
		" ORDER BY a.created_on DESC LIMIT " + arg(f.PageSize) + " OFFSET " + arg(domain.Offset(f.Page, f.PageSize))
	listings, err := r.queryListings(ctx, query, args...)
	return listings, count, err
}

func (r *applianceRepository) ListPopular(ctx context.Context, limit int32) ([]domain.ApplianceListing, error) {
	query := "SELECT " + listingColumns + listingFrom +
		` WHERE a.deleted_on IS NULL AND a.status = 'AVAILABLE' ORDER BY a.review_count DESC, a.rating DESC LIMIT $1`
	return r.queryListings(ctx, query, limit)
}

func (r *applianceRepository) ListFeatured(ctx context.Context, limit int32) ([]domain.ApplianceListing, error) {
	query := "SELECT " + listingColumns + listingFrom +
		` WHERE a.deleted_on IS NULL AND a.status = 'AVAILABLE' ORDER BY a.rating DESC, a.review_count DESC LIMIT $1`
	return r.queryListings(ctx, query, limit)
}

func (r *applianceRepository) queryListings(ctx context.Context, query string, args ...any) ([]domain.ApplianceListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var listings []domain.ApplianceListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func (r *applianceRepository) ListBrands(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT brand FROM appliances WHERE deleted_on IS NULL AND brand <> '' ORDER BY brand`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}
