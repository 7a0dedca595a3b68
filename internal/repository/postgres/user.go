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
)

const userColumns = `id, email, password_hash, name, phone, address, role, business_name, business_address,
	rating, is_verified, push_token, created_on, updated_on`

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var address, businessAddress []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &address, &u.Role, &u.BusinessName,
		&businessAddress, &u.Rating, &u.IsVerified, &u.PushToken, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &u.Address); err != nil {
			return nil, fmt.Errorf("failed to decode address: %w", err)
		}
	}
	if len(businessAddress) > 0 {
		if err := json.Unmarshal(businessAddress, &u.BusinessAddress); err != nil {
			return nil, fmt.Errorf("failed to decode business address: %w", err)
		}
	}
	return u, nil
}

func marshalAddresses(u *domain.User) ([]byte, []byte, error) {
	address, err := json.Marshal(u.Address)
	if err != nil {
		return nil, nil, err
	}
	businessAddress, err := json.Marshal(u.BusinessAddress)
	if err != nil {
		return nil, nil, err
	}
	return address, businessAddress, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	address, businessAddress, err := marshalAddresses(u)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u.CreatedOn, u.UpdatedOn = now, now

	query := `INSERT INTO users (` + userColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	logger.DatabaseCall("INSERT", "users", "userID", u.ID, "role", u.Role)
	_, err = r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, address, u.Role,
		u.BusinessName, businessAddress, u.Rating, u.IsVerified, u.PushToken, u.CreatedOn, u.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapRowError(err, "user", id)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapRowError(err, "user", email)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	address, businessAddress, err := marshalAddresses(u)
	if err != nil {
		return err
	}
	u.UpdatedOn = time.Now().UTC()
	query := `UPDATE users SET name=$1, phone=$2, address=$3, role=$4, business_name=$5, business_address=$6,
	          is_verified=$7, updated_on=$8 WHERE id=$9`
	logger.DatabaseCall("UPDATE", "users", "userID", u.ID)
	result, err := r.db.ExecContext(ctx, query, u.Name, u.Phone, address, u.Role, u.BusinessName, businessAddress,
		u.IsVerified, u.UpdatedOn, u.ID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "user", u.ID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "user", id)
}

func (r *userRepository) UpdatePushToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET push_token=$1 WHERE id=$2`, token, id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "user", id)
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error) {
	where := " WHERE 1=1"
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Search != "" {
		p := arg(likePattern(filter.Search))
		where += " AND (name ILIKE " + p + " OR email ILIKE " + p + " OR business_name ILIKE " + p + ")"
	}
	if filter.Role != "" {
		where += " AND role = " + arg(filter.Role)
	}
	if filter.Verified != nil {
		where += " AND is_verified = " + arg(*filter.Verified)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM users"+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY created_on DESC"
	query += " LIMIT " + arg(filter.PageSize)
	query += " OFFSET " + arg(domain.Offset(filter.Page, filter.PageSize))
	users, err := r.query(ctx, query, args...)
	return users, count, err
}

func (r *userRepository) ListRecent(ctx context.Context, limit int32) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_on DESC LIMIT $1`, limit)
}

// RefreshProviderRatings recomputes every provider's rating from the reviews of
// their appliances.
func (r *userRepository) RefreshProviderRatings(ctx context.Context) (int64, error) {
	query := `UPDATE users u SET rating = s.avg_rating, updated_on = NOW()
	          FROM (SELECT provider_id, ROUND(AVG(rating)::numeric, 2)::float8 AS avg_rating
	                FROM reviews GROUP BY provider_id) s
	          WHERE u.id = s.provider_id AND u.rating <> s.avg_rating`
	logger.DatabaseCall("UPDATE", "users", "operation", "refresh provider ratings")
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *userRepository) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
