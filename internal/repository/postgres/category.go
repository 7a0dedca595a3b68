package postgres

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

const categoryColumns = `id, name, description, image, is_active, created_on, updated_on`

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	c := &domain.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.IsActive, &c.CreatedOn, &c.UpdatedOn); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedOn, c.UpdatedOn = now, now
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.Image, c.IsActive, c.CreatedOn, c.UpdatedOn)
	return mapError(err)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, mapRowError(err, "category", id)
	}
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedOn = time.Now().UTC()
	query := `UPDATE categories SET name=$1, description=$2, image=$3, is_active=$4, updated_on=$5 WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.Image, c.IsActive, c.UpdatedOn, c.ID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "category", c.ID)
}

// Delete removes a category; one still referenced by an appliance fails validation.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "category", id)
}

func (r *categoryRepository) List(ctx context.Context, search string, activeOnly bool, page, pageSize int32) ([]domain.Category, int32, error) {
	where := " WHERE 1=1"
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if search != "" {
		p := arg(likePattern(search))
		where += " AND (name ILIKE " + p + " OR description ILIKE " + p + ")"
	}
	if activeOnly {
		where += " AND is_active"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM categories"+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := "SELECT " + categoryColumns + " FROM categories" + where + " ORDER BY name"
	query += " LIMIT " + arg(pageSize)
	query += " OFFSET " + arg(domain.Offset(page, pageSize))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, *c)
	}
	return categories, count, rows.Err()
}
