package service

import (
	"context"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"
)

type cartService struct {
	cartRepo      repository.CartRepository
	applianceRepo repository.ApplianceRepository
}

func NewCartService(cartRepo repository.CartRepository, applianceRepo repository.ApplianceRepository) CartService {
	return &cartService{cartRepo: cartRepo, applianceRepo: applianceRepo}
}

func (s *cartService) GetCart(ctx context.Context, actor domain.Actor) ([]domain.CartItem, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return s.cartRepo.List(ctx, actor.UserID)
}

// AddToCart is idempotent per appliance; the bool reports whether a new item
// was created.
func (s *cartService) AddToCart(ctx context.Context, actor domain.Actor, applianceID string) (*domain.CartItem, bool, error) {
	if err := requireUser(actor); err != nil {
		return nil, false, err
	}
	a, err := s.applianceRepo.GetByID(ctx, applianceID)
	if err != nil {
		return nil, false, err
	}
	if a.ProviderID == actor.UserID {
		return nil, false, domain.Validationf("you cannot add your own appliance to the cart")
	}
	item := &domain.CartItem{UserID: actor.UserID, ApplianceID: a.ID}
	added, err := s.cartRepo.Add(ctx, item)
	if err != nil {
		return nil, false, err
	}
	item.Appliance = a
	return item, added, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, actor domain.Actor, itemID string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.cartRepo.Remove(ctx, actor.UserID, itemID)
}

func (s *cartService) ClearCart(ctx context.Context, actor domain.Actor) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, actor.UserID)
}
