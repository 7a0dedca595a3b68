package payment

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"appliance-rental-backend/internal/domain"

	"github.com/google/uuid"
)

// Intent is the client-side handle for an online payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Payment is an intent as the provider reports it when a rental claims it.
type Payment struct {
	ID       string
	Amount   int64
	Paid     bool
	Metadata map[string]string
}

// Gateway is the narrow surface the rental flow needs from a payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, metadata map[string]string) (*Intent, error)
	// GetPayment reports an unknown intent as unpaid rather than as an error
	GetPayment(ctx context.Context, intentID string) (*Payment, error)
}

// DevGateway settles every intent it created. It backs local development when
// no provider key is configured.
type DevGateway struct {
	currency string
	mu       sync.Mutex
	intents  map[string]Payment
}

func NewDevGateway(currency string) *DevGateway {
	return &DevGateway{currency: currency, intents: make(map[string]Payment)}
}

func (g *DevGateway) CreateIntent(_ context.Context, amount int64, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, domain.Validationf("payment amount must be positive")
	}
	id := "pi_dev_" + uuid.NewString()
	g.mu.Lock()
	g.intents[id] = Payment{ID: id, Amount: amount, Paid: true, Metadata: maps.Clone(metadata)}
	g.mu.Unlock()
	return &Intent{ID: id, ClientSecret: fmt.Sprintf("%s_secret", id), Amount: amount, Currency: g.currency}, nil
}

func (g *DevGateway) GetPayment(_ context.Context, intentID string) (*Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.intents[intentID]
	if !ok {
		return &Payment{ID: intentID}, nil
	}
	return &p, nil
}
