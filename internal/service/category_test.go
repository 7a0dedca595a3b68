package service

import (
	"context"
	"testing"

	"appliance-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("Public list shows active categories", func(t *testing.T) {
		repo := new(MockCategoryRepo)
		svc := NewCategoryService(repo)
		repo.On("List", ctx, "kit", true, int32(1), int32(20)).Return([]domain.Category{{ID: "cat-1"}}, int32(1), nil)

		cats, total, err := svc.ListCategories(ctx, "kit", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, cats, 1)
	})

	t.Run("Only admins manage categories", func(t *testing.T) {
		svc := NewCategoryService(new(MockCategoryRepo))
		_, err := svc.CreateCategory(ctx, provider, &domain.Category{Name: "Kitchen"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.ErrorIs(t, svc.DeleteCategory(ctx, renter, "cat-1"), domain.ErrForbidden)
	})

	t.Run("Create", func(t *testing.T) {
		repo := new(MockCategoryRepo)
		svc := NewCategoryService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(c *domain.Category) bool { return c.Name == "Kitchen" })).Return(nil)

		c, err := svc.CreateCategory(ctx, admin, &domain.Category{Name: " Kitchen ", IsActive: true})
		require.NoError(t, err)
		assert.Equal(t, "Kitchen", c.Name)

		_, err = svc.CreateCategory(ctx, admin, &domain.Category{Name: " "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		repo := new(MockCategoryRepo)
		svc := NewCategoryService(repo)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate)
		_, err := svc.CreateCategory(ctx, admin, &domain.Category{Name: "Kitchen"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})
}
