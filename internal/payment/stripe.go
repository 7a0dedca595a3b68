package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeGateway struct {
	intents  intentAPI
	currency string
	breaker  *CircuitBreaker
}

// NewStripeGateway builds a Gateway over the Stripe PaymentIntents API.
func NewStripeGateway(secretKey, currency string, breaker *CircuitBreaker) Gateway {
	sc := client.New(secretKey, nil)
	return newStripeGateway(sc.PaymentIntents, currency, breaker)
}

func newStripeGateway(intents intentAPI, currency string, breaker *CircuitBreaker) *stripeGateway {
	return &stripeGateway{intents: intents, currency: currency, breaker: breaker}
}

func (g *stripeGateway) CreateIntent(ctx context.Context, amount int64, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, domain.Validationf("payment amount must be positive")
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	logger.ExternalServiceCall("stripe", "PaymentIntents.New", "amount", amount)
	var pi *stripe.PaymentIntent
	err := g.breaker.Execute(func() error {
		var err error
		pi, err = g.intents.New(params)
		return err
	}, isGatewayFailure)
	logger.ExternalServiceResult("stripe", "PaymentIntents.New", err)
	if err != nil {
		return nil, translate(err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Amount: pi.Amount, Currency: string(pi.Currency)}, nil
}

func (g *stripeGateway) GetPayment(ctx context.Context, intentID string) (*Payment, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	logger.ExternalServiceCall("stripe", "PaymentIntents.Get", "intentID", intentID)
	var pi *stripe.PaymentIntent
	err := g.breaker.Execute(func() error {
		var err error
		pi, err = g.intents.Get(intentID, params)
		return err
	}, isGatewayFailure)
	logger.ExternalServiceResult("stripe", "PaymentIntents.Get", err, "intentID", intentID)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return &Payment{ID: intentID}, nil
		}
		return nil, translate(err)
	}
	return &Payment{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Paid:     pi.Status == stripe.PaymentIntentStatusSucceeded,
		Metadata: pi.Metadata,
	}, nil
}

// isGatewayFailure reports whether err says the gateway itself is unhealthy
// rather than the request being bad.
func isGatewayFailure(err error) bool {
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode == 0 || se.HTTPStatusCode >= 500 || se.HTTPStatusCode == http.StatusTooManyRequests
	}
	return true
}

func translate(err error) error {
	if errors.Is(err, ErrCircuitOpen) || isGatewayFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return domain.Validationf("payment rejected: %s", se.Msg)
	}
	return err
}
