package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLength = 2000

type reviewService struct {
	tx         repository.Transactor
	reviewRepo repository.ReviewRepository
	cache      cache.ListingCache
	cfg        config.RentalConfig
}

func NewReviewService(tx repository.Transactor, reviewRepo repository.ReviewRepository, listingCache cache.ListingCache, cfg config.RentalConfig) ReviewService {
	return &reviewService{tx: tx, reviewRepo: reviewRepo, cache: listingCache, cfg: cfg}
}

// CreateReview records the renter's review of a completed rental and refreshes
// the appliance rating in the same unit of work.
func (s *reviewService) CreateReview(ctx context.Context, actor domain.Actor, applianceID string, rating int32, comment string) (*domain.Review, error) {
	logger.EnterMethod("reviewService.CreateReview", "userID", actor.UserID, "applianceID", applianceID, "rating", rating)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err)
		return nil, err
	}
	if rating < 1 || rating > 5 {
		err := domain.Validationf("rating must be between 1 and 5")
		logger.ExitMethodWithError("reviewService.CreateReview", err)
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		err := domain.Validationf("comment must be at most %d characters", maxCommentLength)
		logger.ExitMethodWithError("reviewService.CreateReview", err)
		return nil, err
	}

	var review *domain.Review
	err := runTx(ctx, s.tx, s.cfg.TxTimeout, "review.create", func(ctx context.Context, tx repository.Tx) error {
		rt, err := tx.Rentals().FindCompletedForReview(ctx, actor.UserID, applianceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Validationf("only completed rentals can be reviewed")
			}
			return err
		}

		rv := &domain.Review{
			UserID:      actor.UserID,
			ApplianceID: applianceID,
			ProviderID:  rt.ProviderID,
			RentalID:    rt.ID,
			Rating:      rating,
			Comment:     comment,
		}
		if err := tx.Reviews().Create(ctx, rv); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: appliance %s was already reviewed", domain.ErrDuplicate, applianceID)
			}
			return err
		}

		rt.HasReview = true
		rt.UpdatedOn = time.Now().UTC()
		if err := tx.Rentals().Update(ctx, rt); err != nil {
			return err
		}

		avg, count, err := tx.Reviews().RatingSummary(ctx, applianceID)
		if err != nil {
			return err
		}
		if err := tx.Appliances().UpdateRating(ctx, applianceID, avg, count); err != nil {
			return err
		}
		review = rv
		return nil
	}, attribute.String("appliance.id", applianceID))
	if err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "applianceID", applianceID)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate listing cache", "error", err)
	}
	logger.ExitMethod("reviewService.CreateReview", "reviewID", review.ID)
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, applianceID string, page, pageSize int32) ([]domain.Review, int32, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.reviewRepo.ListByAppliance(ctx, applianceID, page, pageSize)
}
