package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate/internal/auth"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/repository"
)

const (
	maxSimilarProperties = 4
	defaultPerPage       = 12
	maxPerPage           = 50
)

// ViewerAccess lists what the current viewer may see and do on a detail page.
type ViewerAccess struct {
	ShowOwnerEmail bool `json:"show_owner_email"`
	CanEdit        bool `json:"can_edit"`
	CanContact     bool `json:"can_contact"`
	CanFavorite    bool `json:"can_favorite"`
}

// PropertyDetails is everything a detail page shows.
type PropertyDetails struct {
	Property   *model.Property
	Images     []model.PropertyImage
	Similar    []model.Property
	IsFavorite bool
	Access     ViewerAccess
}

// ListFilter narrows the public listing. Page is 1-based.
type ListFilter struct {
	repository.PropertyFilter
	Page    int
	PerPage int
}

// PropertyPage is one page of the public listing.
type PropertyPage struct {
	Items   []model.Property
	Total   int64
	Page    int
	PerPage int
}

// PropertyService exposes the public read paths for listings.
type PropertyService interface {
	GetDetails(ctx context.Context, id uint) (*PropertyDetails, error)
	GetContact(ctx context.Context, id uint) (*model.Property, error)
	List(ctx context.Context, filter ListFilter) (*PropertyPage, error)
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	favoriteRepo repository.FavoriteRepository
	views        ViewCounter
	perm         func(n int) []int
	logger       *zap.Logger
}

// NewPropertyService creates a property service. perm picks the similar
// properties shown on a detail page; nil means math/rand/v2's Perm.
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	favoriteRepo repository.FavoriteRepository,
	views ViewCounter,
	perm func(n int) []int,
	logger *zap.Logger,
) PropertyService {
	if perm == nil {
		perm = rand.Perm
	}
	return &propertyService{
		propertyRepo: propertyRepo,
		favoriteRepo: favoriteRepo,
		views:        views,
		perm:         perm,
		logger:       logger,
	}
}

// GetDetails assembles the detail page for an available property. Missing
// and unavailable properties are indistinguishable. Failures of the
// secondary lookups leave their section empty.
func (s *propertyService) GetDetails(ctx context.Context, id uint) (*PropertyDetails, error) {
	property, err := s.findAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	viewer := auth.FromContext(ctx)

	details := &PropertyDetails{
		Property: property,
		Access:   accessFor(viewer, property),
	}

	details.Images, err = s.propertyRepo.Images(ctx, id)
	if err != nil {
		s.logger.Error("load property images", zap.Uint("property_id", id), zap.Error(err))
		details.Images = nil
	}

	details.Similar, err = s.similar(ctx, property)
	if err != nil {
		s.logger.Error("load similar properties", zap.Uint("property_id", id), zap.Error(err))
		details.Similar = nil
	}

	if viewer.IsLoggedIn() {
		details.IsFavorite, err = s.favoriteRepo.Exists(ctx, viewer.UserID, id)
		if err != nil {
			s.logger.Error("check favorite", zap.Uint("property_id", id), zap.Uint("user_id", viewer.UserID), zap.Error(err))
			details.IsFavorite = false
		}
	}

	// best effort, never blocks or fails the render
	s.views.Record(id)

	return details, nil
}

// GetContact returns an available property with its owner loaded.
func (s *propertyService) GetContact(ctx context.Context, id uint) (*model.Property, error) {
	return s.findAvailable(ctx, id)
}

// List returns one page of available properties.
func (s *propertyService) List(ctx context.Context, filter ListFilter) (*PropertyPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	filter.Limit = filter.PerPage
	filter.Offset = (filter.Page - 1) * filter.PerPage

	items, total, err := s.propertyRepo.ListAvailable(ctx, filter.PropertyFilter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return &PropertyPage{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *propertyService) findAvailable(ctx context.Context, id uint) (*model.Property, error) {
	property, err := s.propertyRepo.FindAvailable(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("load property", zap.Uint("property_id", id), zap.Error(err))
		}
		return nil, apperrors.ErrPropertyNotFound
	}
	return property, nil
}

// similar samples up to maxSimilarProperties matching listings uniformly.
func (s *propertyService) similar(ctx context.Context, property *model.Property) ([]model.Property, error) {
	candidates, err := s.propertyRepo.SimilarCandidateIDs(ctx, property)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := make([]uint, 0, maxSimilarProperties)
	for _, i := range s.perm(len(candidates)) {
		if candidates[i] == property.ID {
			continue
		}
		picked = append(picked, candidates[i])
		if len(picked) == maxSimilarProperties {
			break
		}
	}
	return s.propertyRepo.FindAvailableWithMainImage(ctx, picked)
}

// accessFor decides the actions offered to viewer on property.
func accessFor(viewer auth.Identity, property *model.Property) ViewerAccess {
	access := ViewerAccess{ShowOwnerEmail: viewer.IsLoggedIn()}
	if !viewer.IsLoggedIn() {
		return access
	}
	if viewer.UserID == property.OwnerID {
		access.CanEdit = true
		return access
	}

	switch viewer.Role {
	case model.RoleTenant:
		access.CanContact = true
		access.CanFavorite = true
	case model.RoleOwner, model.RoleAdmin:
		// browse only
	}
	return access
}
