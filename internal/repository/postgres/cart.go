package postgres

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type cartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) repository.CartRepository {
	return &cartRepository{db: db}
}

// Add inserts the item and reports false when the appliance was already in the cart.
func (r *cartRepository) Add(ctx context.Context, item *domain.CartItem) (bool, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.AddedAt = time.Now().UTC()
	query := `INSERT INTO cart_items (id, user_id, appliance_id, added_at) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, appliance_id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ApplianceID, item.AddedAt)
	if err != nil {
		return false, mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *cartRepository) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `SELECT ` + applianceColumns + `, c.id, c.user_id, c.added_at
	          FROM cart_items c JOIN appliances a ON a.id = c.appliance_id
	          WHERE c.user_id = $1 AND a.deleted_on IS NULL ORDER BY c.added_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		a, err := scanAppliance(rows, &item.ID, &item.UserID, &item.AddedAt)
		if err != nil {
			return nil, err
		}
		item.ApplianceID = a.ID
		item.Appliance = a
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartRepository) Remove(ctx context.Context, userID, itemID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "cart item", itemID)
}

func (r *cartRepository) RemoveAppliance(ctx context.Context, userID, applianceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND appliance_id = $2`, userID, applianceID)
	return mapError(err)
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return mapError(err)
}
