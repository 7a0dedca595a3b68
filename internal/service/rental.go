package service

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/payment"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

type rentalService struct {
	tx         repository.Transactor
	rentalRepo repository.RentalRepository
	cartRepo   repository.CartRepository
	gateway    payment.Gateway
	notifier   Notifier
	cache      cache.ListingCache
	cfg        config.RentalConfig
	now        func() time.Time
}

func NewRentalService(
	tx repository.Transactor,
	rentalRepo repository.RentalRepository,
	cartRepo repository.CartRepository,
	gateway payment.Gateway,
	notifier Notifier,
	listingCache cache.ListingCache,
	cfg config.RentalConfig,
) RentalService {
	return &rentalService{
		tx:         tx,
		rentalRepo: rentalRepo,
		cartRepo:   cartRepo,
		gateway:    gateway,
		notifier:   notifier,
		cache:      listingCache,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *rentalService) runTx(ctx context.Context, name string, fn func(ctx context.Context, tx repository.Tx) error, attrs ...attribute.KeyValue) error {
	return runTx(ctx, s.tx, s.cfg.TxTimeout, name, fn, attrs...)
}

func (s *rentalService) validateCreate(req domain.CreateRentalRequest) (time.Time, time.Time, error) {
	if req.ApplianceID == "" {
		return time.Time{}, time.Time{}, domain.Validationf("appliance_id is required")
	}
	if !req.PaymentMethod.Valid() {
		return time.Time{}, time.Time{}, domain.Validationf("payment_method must be CASH_ON_DELIVERY or ONLINE")
	}
	if req.DeliveryAddress.Street == "" || req.DeliveryAddress.City == "" {
		return time.Time{}, time.Time{}, domain.Validationf("delivery address requires street and city")
	}
	start, end, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.Before(utils.TruncateDate(s.now())) {
		return time.Time{}, time.Time{}, domain.Validationf("start date cannot be in the past")
	}
	days, err := utils.DaysBetween(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if days < s.cfg.MinDurationDays {
		return time.Time{}, time.Time{}, domain.Validationf("minimum rental duration is %d days, got %d", s.cfg.MinDurationDays, days)
	}
	return start, end, nil
}

// checkPayment confirms an online payment reference is settled before any row
// is locked. Amount and ownership are verified inside the unit by matchPayment.
func (s *rentalService) checkPayment(ctx context.Context, req domain.CreateRentalRequest) (*payment.Payment, error) {
	if req.PaymentMethod != domain.PaymentMethodOnline {
		return nil, nil
	}
	if req.PaymentReference == "" {
		return nil, domain.Validationf("payment_reference is required for online payment")
	}
	p, err := s.gateway.GetPayment(ctx, req.PaymentReference)
	if err != nil {
		return nil, err
	}
	if !p.Paid {
		return nil, domain.Validationf("payment %s is not completed", req.PaymentReference)
	}
	return p, nil
}

// matchPayment ties a settled intent to the booking it pays for.
func matchPayment(p *payment.Payment, actor domain.Actor, a *domain.Appliance, cost utils.RentalCostBreakdown) error {
	if p.Metadata["user_id"] != actor.UserID || p.Metadata["appliance_id"] != a.ID {
		return domain.Validationf("payment %s was not issued for this rental", p.ID)
	}
	if want := cost.TotalCost + cost.Deposit; p.Amount != want {
		return domain.Validationf("payment %s covers %d, rental requires %d", p.ID, p.Amount, want)
	}
	return nil
}

func (s *rentalService) CreateRental(ctx context.Context, actor domain.Actor, req domain.CreateRentalRequest) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "userID", actor.UserID, "applianceID", req.ApplianceID)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "reason", "unauthenticated")
		return nil, err
	}
	start, end, err := s.validateCreate(req)
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "reason", "invalid request")
		return nil, err
	}

	settled, err := s.checkPayment(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "reason", "payment check failed")
		return nil, err
	}
	paymentStatus := domain.PaymentStatusPending
	if settled != nil {
		paymentStatus = domain.PaymentStatusPaid
	}

	var rental *domain.Rental
	var appliance *domain.Appliance
	err = s.runTx(ctx, "rental.create", func(ctx context.Context, tx repository.Tx) error {
		a, err := tx.Appliances().GetByIDForUpdate(ctx, req.ApplianceID)
		if err != nil {
			return err
		}
		if a.ProviderID == actor.UserID {
			return fmt.Errorf("%w: providers cannot rent their own appliances", domain.ErrForbidden)
		}
		if !a.IsAvailable() {
			return fmt.Errorf("%w: appliance %s is %s", domain.ErrApplianceUnavailable, a.ID, a.Status)
		}
		holding, err := tx.Rentals().CountHoldingByAppliance(ctx, a.ID)
		if err != nil {
			return err
		}
		if holding > 0 {
			return fmt.Errorf("%w: appliance %s already has an open rental", domain.ErrApplianceUnavailable, a.ID)
		}

		cost, err := utils.CalculateRentalCost(start, end, a.Pricing)
		if err != nil {
			return err
		}
		if settled != nil {
			if err := matchPayment(settled, actor, a, cost); err != nil {
				return err
			}
		}

		rt := &domain.Rental{
			UserID:           actor.UserID,
			ApplianceID:      a.ID,
			ProviderID:       a.ProviderID,
			StartDate:        start,
			EndDate:          end,
			Status:           domain.RentalStatusPending,
			TotalAmount:      cost.TotalCost,
			Deposit:          cost.Deposit,
			PaymentStatus:    paymentStatus,
			PaymentMethod:    req.PaymentMethod,
			PaymentReference: req.PaymentReference,
			DeliveryAddress:  req.DeliveryAddress,
			DeliveryTime:     req.DeliveryTime,
		}
		if err := tx.Rentals().Create(ctx, rt); err != nil {
			return err
		}
		if err := tx.Appliances().UpdateStatus(ctx, a.ID, domain.ApplianceStatusAvailable, domain.ApplianceStatusRented); err != nil {
			return err
		}
		rental, appliance = rt, a
		return nil
	}, attribute.String("appliance.id", req.ApplianceID))
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "applianceID", req.ApplianceID)
		return nil, err
	}

	if err := s.cartRepo.RemoveAppliance(ctx, actor.UserID, rental.ApplianceID); err != nil {
		logger.Warn("Failed to remove rented appliance from cart", "userID", actor.UserID, "error", err)
	}
	s.invalidateListings(ctx)
	s.notifier.Notify(ctx, rental.ProviderID, "New Rental Request",
		fmt.Sprintf("%s was requested from %s to %s", appliance.Name, start.Format(utils.DateLayout), end.Format(utils.DateLayout)),
		rentalAttributes("RENTAL_REQUEST", rental))

	logger.ExitMethod("rentalService.CreateRental", "rentalID", rental.ID, "total", rental.TotalAmount)
	return rental, nil
}

// resolveActor decides which side of the rental the caller acts for. Callers
// unrelated to the rental do not learn it exists.
func resolveActor(actor domain.Actor, rt *domain.Rental, target domain.RentalStatus) (domain.TransitionActor, error) {
	isRenter := rt.UserID == actor.UserID
	isProvider := actor.IsProvider() && rt.ProviderID == actor.UserID
	switch {
	case isRenter && target == domain.RentalStatusCancelled:
		return domain.TransitionActorRenter, nil
	case isProvider:
		return domain.TransitionActorProvider, nil
	case isRenter:
		return "", fmt.Errorf("%w: only the provider can move a rental to %s", domain.ErrForbidden, target)
	default:
		return "", fmt.Errorf("rental %s: %w", rt.ID, domain.ErrNotFound)
	}
}

func (s *rentalService) ExecuteTransition(ctx context.Context, actor domain.Actor, rentalID string, target domain.RentalStatus) (*domain.Rental, error) {
	const method = "rentalService.ExecuteTransition"
	logger.EnterMethod(method, "userID", actor.UserID, "rentalID", rentalID, "target", target)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError(method, err, "reason", "unauthenticated")
		return nil, err
	}
	return s.transition(ctx, method, rentalID, target, func(rt *domain.Rental) (domain.TransitionActor, error) {
		return resolveActor(actor, rt, target)
	})
}

// CancelRental is the renter-only cancellation path.
func (s *rentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	const method = "rentalService.CancelRental"
	logger.EnterMethod(method, "userID", actor.UserID, "rentalID", rentalID)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError(method, err, "reason", "unauthenticated")
		return nil, err
	}
	return s.transition(ctx, method, rentalID, domain.RentalStatusCancelled, func(rt *domain.Rental) (domain.TransitionActor, error) {
		if rt.UserID != actor.UserID {
			return "", fmt.Errorf("rental %s: %w", rt.ID, domain.ErrNotFound)
		}
		return domain.TransitionActorRenter, nil
	})
}

func (s *rentalService) providerTransition(ctx context.Context, actor domain.Actor, rentalID string, target domain.RentalStatus) (*domain.Rental, error) {
	const method = "rentalService.providerTransition"
	logger.EnterMethod(method, "userID", actor.UserID, "rentalID", rentalID, "target", target)
	if err := requireProvider(actor); err != nil {
		logger.ExitMethodWithError(method, err, "reason", "provider role required")
		return nil, err
	}
	return s.transition(ctx, method, rentalID, target, func(rt *domain.Rental) (domain.TransitionActor, error) {
		if rt.ProviderID != actor.UserID {
			return "", fmt.Errorf("rental %s: %w", rt.ID, domain.ErrNotFound)
		}
		return domain.TransitionActorProvider, nil
	})
}

func (s *rentalService) ApproveRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return s.providerTransition(ctx, actor, rentalID, domain.RentalStatusApproved)
}

func (s *rentalService) RejectRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return s.providerTransition(ctx, actor, rentalID, domain.RentalStatusRejected)
}

func (s *rentalService) ActivateRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return s.providerTransition(ctx, actor, rentalID, domain.RentalStatusActive)
}

func (s *rentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return s.providerTransition(ctx, actor, rentalID, domain.RentalStatusCompleted)
}

func (s *rentalService) ProviderCancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return s.providerTransition(ctx, actor, rentalID, domain.RentalStatusCancelled)
}

// transition locks the rental, validates the move against the lifecycle table
// and writes the rental and its appliance as one unit. It logs the exit of
// method, which the caller entered.
func (s *rentalService) transition(ctx context.Context, method, rentalID string, target domain.RentalStatus, actorFor func(*domain.Rental) (domain.TransitionActor, error)) (*domain.Rental, error) {
	var rental *domain.Rental
	var applied domain.Transition
	err := s.runTx(ctx, "rental.transition", func(ctx context.Context, tx repository.Tx) error {
		rt, err := tx.Rentals().GetByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		actor, err := actorFor(rt)
		if err != nil {
			return err
		}
		t, err := domain.PlanTransition(rt.Status, target, actor)
		if err != nil {
			return err
		}

		if t.ApplianceStatus != "" {
			if err := tx.Appliances().UpdateStatus(ctx, rt.ApplianceID, "", t.ApplianceStatus); err != nil {
				return err
			}
		}
		rt.Apply(t, s.now().UTC())
		if err := tx.Rentals().Update(ctx, rt); err != nil {
			return err
		}
		rental, applied = rt, t
		return nil
	}, attribute.String("rental.id", rentalID), attribute.String("rental.target", string(target)))
	if err != nil {
		logger.ExitMethodWithError(method, err, "rentalID", rentalID, "target", target)
		return nil, err
	}

	if applied.ApplianceStatus != "" {
		s.invalidateListings(ctx)
	}
	s.notifyTransition(ctx, rental, applied)
	logger.ExitMethod(method, "rentalID", rental.ID, "from", applied.From, "to", applied.To)
	return rental, nil
}

func (s *rentalService) notifyTransition(ctx context.Context, rt *domain.Rental, t domain.Transition) {
	attrs := rentalAttributes("RENTAL_"+string(t.To), rt)
	switch t.To {
	case domain.RentalStatusApproved:
		s.notifier.Notify(ctx, rt.UserID, "Rental Approved", "Your rental request was approved by the provider.", attrs)
	case domain.RentalStatusRejected:
		s.notifier.Notify(ctx, rt.UserID, "Rental Rejected", "Your rental request was rejected by the provider.", attrs)
	case domain.RentalStatusActive:
		s.notifier.Notify(ctx, rt.UserID, "Rental Active", "Your appliance has been delivered. Enjoy!", attrs)
	case domain.RentalStatusCompleted:
		s.notifier.Notify(ctx, rt.UserID, "Rental Completed", "Your rental is complete. You can now leave a review.", attrs)
	case domain.RentalStatusCancelled:
		if t.Actor == domain.TransitionActorRenter {
			s.notifier.Notify(ctx, rt.ProviderID, "Rental Cancelled", "The renter cancelled their rental request.", attrs)
		} else {
			s.notifier.Notify(ctx, rt.UserID, "Rental Cancelled", "The provider cancelled your rental.", attrs)
		}
	}
}

func rentalAttributes(kind string, rt *domain.Rental) map[string]string {
	return map[string]string{
		"type":         kind,
		"rental_id":    rt.ID,
		"appliance_id": rt.ApplianceID,
		"status":       string(rt.Status),
	}
}

func (s *rentalService) invalidateListings(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate listing cache", "error", err)
	}
}

func (s *rentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.UserID != actor.UserID && rt.ProviderID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("rental %s: %w", rentalID, domain.ErrNotFound)
	}
	return rt, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	if err := requireUser(actor); err != nil {
		return nil, 0, err
	}
	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)
	return s.rentalRepo.ListByRenter(ctx, actor.UserID, filter)
}

func (s *rentalService) ListProviderRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	if err := requireProvider(actor); err != nil {
		return nil, 0, err
	}
	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)
	return s.rentalRepo.ListByProvider(ctx, actor.UserID, filter)
}
