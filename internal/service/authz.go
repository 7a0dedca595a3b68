package service

import (
	"fmt"

	"appliance-rental-backend/internal/domain"
)

func requireUser(actor domain.Actor) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireProvider(actor domain.Actor) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsProvider() {
		return fmt.Errorf("%w: provider role required", domain.ErrForbidden)
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}
