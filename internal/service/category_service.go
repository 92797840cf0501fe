package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"realestate/internal/cache"
	"realestate/internal/model"
	"realestate/internal/repository"
)

const (
	categoryCacheKey = "categories:all"
	categoryCacheTTL = 10 * time.Minute
)

// CategoryService exposes property categories.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Ensure(ctx context.Context, name string) (*model.Category, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryCacheKey, payload, categoryCacheTTL)
	}
	return categories, nil
}

// Ensure returns the named category, creating it if needed, and drops the cached list.
func (s *categoryService) Ensure(ctx context.Context, name string) (*model.Category, error) {
	category, err := s.repo.FindOrCreate(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, categoryCacheKey)
	return category, nil
}
