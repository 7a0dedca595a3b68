package service

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/payment"
	"appliance-rental-backend/internal/utils"
)

type paymentService struct {
	catalog CatalogService
	gateway payment.Gateway
}

func NewPaymentService(catalog CatalogService, gateway payment.Gateway) PaymentService {
	return &paymentService{catalog: catalog, gateway: gateway}
}

// CreatePaymentIntent charges the rental total plus the deposit. The returned
// intent id is what the renter submits as payment_reference.
func (s *paymentService) CreatePaymentIntent(ctx context.Context, actor domain.Actor, applianceID, startDate, endDate string) (*payment.Intent, *utils.RentalCostBreakdown, error) {
	logger.EnterMethod("paymentService.CreatePaymentIntent", "userID", actor.UserID, "applianceID", applianceID)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError("paymentService.CreatePaymentIntent", err)
		return nil, nil, err
	}
	cost, err := s.catalog.Quote(ctx, applianceID, startDate, endDate)
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreatePaymentIntent", err)
		return nil, nil, err
	}
	amount := cost.TotalCost + cost.Deposit
	if amount <= 0 {
		err := domain.Validationf("nothing to pay for this rental")
		logger.ExitMethodWithError("paymentService.CreatePaymentIntent", err)
		return nil, nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, map[string]string{
		"user_id":      actor.UserID,
		"appliance_id": applianceID,
		"start_date":   startDate,
		"end_date":     endDate,
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreatePaymentIntent", err, "applianceID", applianceID)
		return nil, nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	logger.ExitMethod("paymentService.CreatePaymentIntent", "intentID", intent.ID, "amount", amount)
	return intent, cost, nil
}
