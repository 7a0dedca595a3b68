package service

import (
	"context"
	"strings"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// ListCategories returns active categories only.
func (s *categoryService) ListCategories(ctx context.Context, search string, page, pageSize int32) ([]domain.Category, int32, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.categoryRepo.List(ctx, search, true, page, pageSize)
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) CreateCategory(ctx context.Context, actor domain.Actor, c *domain.Category) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.Validationf("category name is required")
	}
	c.ID = ""
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor domain.Actor, id string, upd *domain.Category) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(upd.Name); name != "" {
		c.Name = name
	}
	c.Description = upd.Description
	c.Image = upd.Image
	c.IsActive = upd.IsActive
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
