package service

import (
	"context"
	"testing"
	"time"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApplianceFixture(t *testing.T) (*memStore, *MockCategoryRepo, ApplianceService) {
	t.Helper()
	store := newMemStore()
	store.seedAppliance(domain.Appliance{
		ID: "appliance-1", Name: "Fridge", CategoryID: "cat-1", ProviderID: provider.UserID,
		Pricing: testTiers, Status: domain.ApplianceStatusAvailable,
	})
	categories := new(MockCategoryRepo)
	categories.On("GetByID", mock.Anything, "cat-1").Return(&domain.Category{ID: "cat-1", Name: "Kitchen", IsActive: true}, nil)
	categories.On("GetByID", mock.Anything, "cat-off").Return(&domain.Category{ID: "cat-off", Name: "Old", IsActive: false}, nil)

	svc := NewApplianceService(store, store.committed().Appliances(), categories, cache.NewNoopCache(),
		config.RentalConfig{TxTimeout: time.Second})
	return store, categories, svc
}

func TestApplianceService_CreateAppliance(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		a, err := svc.CreateAppliance(ctx, provider, &domain.Appliance{
			Name: " Oven ", CategoryID: "cat-1", Pricing: testTiers, Status: domain.ApplianceStatusRented,
		})
		require.NoError(t, err)
		assert.Equal(t, "Oven", a.Name)
		assert.Equal(t, provider.UserID, a.ProviderID)
		assert.Equal(t, domain.ApplianceStatusAvailable, store.appliance(a.ID).Status)
	})

	t.Run("Renters cannot list appliances", func(t *testing.T) {
		_, _, svc := newApplianceFixture(t)
		_, err := svc.CreateAppliance(ctx, renter, &domain.Appliance{Name: "Oven", CategoryID: "cat-1", Pricing: testTiers})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Negative price", func(t *testing.T) {
		_, _, svc := newApplianceFixture(t)
		_, err := svc.CreateAppliance(ctx, provider, &domain.Appliance{Name: "Oven", CategoryID: "cat-1", Pricing: domain.Pricing{Daily: -1}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Inactive category", func(t *testing.T) {
		_, _, svc := newApplianceFixture(t)
		_, err := svc.CreateAppliance(ctx, provider, &domain.Appliance{Name: "Oven", CategoryID: "cat-off", Pricing: testTiers})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestApplianceService_UpdateAppliance(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner updates pricing but not status", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		upd := &domain.Appliance{Name: "Big Fridge", CategoryID: "cat-1", Pricing: domain.Pricing{Daily: 150}, Status: domain.ApplianceStatusMaintenance}
		a, err := svc.UpdateAppliance(ctx, provider, "appliance-1", upd)
		require.NoError(t, err)
		assert.Equal(t, "Big Fridge", a.Name)
		assert.Equal(t, int64(150), store.appliance("appliance-1").Pricing.Daily)
		assert.Equal(t, domain.ApplianceStatusAvailable, store.appliance("appliance-1").Status)
	})

	t.Run("Other provider is forbidden", func(t *testing.T) {
		_, _, svc := newApplianceFixture(t)
		_, err := svc.UpdateAppliance(ctx, stranger, "appliance-1", &domain.Appliance{Name: "x", CategoryID: "cat-1", Pricing: testTiers})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestApplianceService_SetMaintenance(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle on and off", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		a, err := svc.SetMaintenance(ctx, provider, "appliance-1", true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplianceStatusMaintenance, a.Status)
		assert.Equal(t, domain.ApplianceStatusMaintenance, store.appliance("appliance-1").Status)

		a, err = svc.SetMaintenance(ctx, provider, "appliance-1", false)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplianceStatusAvailable, a.Status)
	})

	t.Run("Refused while a rental holds the appliance", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		a := store.appliance("appliance-1")
		a.Status = domain.ApplianceStatusRented
		store.seedAppliance(a)
		store.state.rentals["rental-1"] = domain.Rental{ID: "rental-1", ApplianceID: "appliance-1", Status: domain.RentalStatusApproved}

		_, err := svc.SetMaintenance(ctx, provider, "appliance-1", true)
		assert.ErrorIs(t, err, domain.ErrConflict)
		_, err = svc.SetMaintenance(ctx, provider, "appliance-1", false)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, domain.ApplianceStatusRented, store.appliance("appliance-1").Status)
	})

	t.Run("Other provider is forbidden", func(t *testing.T) {
		_, _, svc := newApplianceFixture(t)
		_, err := svc.SetMaintenance(ctx, stranger, "appliance-1", true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestApplianceService_DeleteAppliance(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused while held", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		store.state.rentals["rental-1"] = domain.Rental{ID: "rental-1", ApplianceID: "appliance-1", Status: domain.RentalStatusPending}
		err := svc.DeleteAppliance(ctx, provider, "appliance-1")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Soft deletes", func(t *testing.T) {
		store, _, svc := newApplianceFixture(t)
		require.NoError(t, svc.DeleteAppliance(ctx, provider, "appliance-1"))
		assert.NotNil(t, store.appliance("appliance-1").DeletedOn)

		list, total, err := svc.ListMyAppliances(ctx, provider, 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
	})
}
