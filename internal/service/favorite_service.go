package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/repository"
)

// FavoriteAction is the requested change to a bookmark.
type FavoriteAction string

const (
	FavoriteAdd    FavoriteAction = "add"
	FavoriteRemove FavoriteAction = "remove"
)

// ParseFavoriteAction accepts "add" or "remove".
func ParseFavoriteAction(s string) (FavoriteAction, error) {
	switch a := FavoriteAction(strings.TrimSpace(s)); a {
	case FavoriteAdd, FavoriteRemove:
		return a, nil
	}
	return "", apperrors.ErrInvalidFavoriteAction
}

// FavoriteService manages a user's bookmarked properties.
type FavoriteService interface {
	Toggle(ctx context.Context, userID, propertyID uint, action FavoriteAction) error
	List(ctx context.Context, userID uint) ([]model.Property, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	propertyRepo repository.PropertyRepository
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, propertyRepo repository.PropertyRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		propertyRepo: propertyRepo,
	}
}

// Toggle adds or removes a bookmark. Adding twice and removing a missing
// bookmark both succeed. Only available properties can be added.
func (s *favoriteService) Toggle(ctx context.Context, userID, propertyID uint, action FavoriteAction) error {
	if userID == 0 {
		return apperrors.ErrUnauthenticated
	}

	switch action {
	case FavoriteAdd:
		if _, err := s.propertyRepo.FindAvailable(ctx, propertyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPropertyNotFound
			}
			return fmt.Errorf("find property: %w", err)
		}
		if err := s.favoriteRepo.Add(ctx, userID, propertyID); err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		return nil
	case FavoriteRemove:
		if err := s.favoriteRepo.Remove(ctx, userID, propertyID); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		return nil
	default:
		return apperrors.ErrInvalidFavoriteAction
	}
}

// List returns the user's bookmarked available properties.
func (s *favoriteService) List(ctx context.Context, userID uint) ([]model.Property, error) {
	properties, err := s.favoriteRepo.ListProperties(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return properties, nil
}
