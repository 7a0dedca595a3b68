package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CategoryRepository
	repository.ApplianceRepository
	repository.RentalRepository
	repository.ReviewRepository
	repository.CartRepository
	repository.NotificationRepository
	repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		ApplianceRepository:    NewApplianceRepository(db),
		RentalRepository:       NewRentalRepository(db),
		ReviewRepository:       NewReviewRepository(db),
		CartRepository:         NewCartRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		StatsRepository:        NewStatsRepository(db),
	}
}

// DB returns the underlying pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies the embedded schema; every statement is idempotent
func (s *Store) Migrate(ctx context.Context) error {
	logger.DatabaseCall("MIGRATE", "schema")
	_, err := s.db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

type txRepositories struct {
	appliances repository.ApplianceRepository
	rentals    repository.RentalRepository
	reviews    repository.ReviewRepository
}

func (t *txRepositories) Appliances() repository.ApplianceRepository { return t.appliances }
func (t *txRepositories) Rentals() repository.RentalRepository       { return t.rentals }
func (t *txRepositories) Reviews() repository.ReviewRepository       { return t.reviews }

// WithinTx runs fn in a SERIALIZABLE transaction
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapError(err)
	}
	defer tx.Rollback()

	repos := &txRepositories{
		appliances: NewApplianceRepository(tx),
		rentals:    NewRentalRepository(tx),
		reviews:    NewReviewRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}
