package service

import (
	"context"
	"fmt"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// CategoryInput represents data required to create a category.
type CategoryInput struct {
	Name        string
	Color       string
	Icon        string
	Description string
}

// CategoryService manages the shared category reference data.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, validationErr("name", "name is required")
	}

	category := model.Category{
		Name:        input.Name,
		Color:       input.Color,
		Icon:        input.Icon,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("category %d", id))
	}
	return category, nil
}

// Delete removes a category; tasks referencing it fall back to no category.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, fmt.Sprintf("category %d", id))
	}
	return nil
}
