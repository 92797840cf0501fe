package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	apperrors "realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/repository"
	"realestate/internal/service"
)

// Fixture is the YAML document loaded by the seed command.
type Fixture struct {
	Categories []string          `yaml:"categories"`
	Users      []UserFixture     `yaml:"users"`
	Properties []PropertyFixture `yaml:"properties"`
}

// UserFixture is one account. Passwords are given in clear and go through registration.
type UserFixture struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Password  string `yaml:"password"`
	UserType  string `yaml:"user_type"`
}

// PropertyFixture is one listing, owned by the user with email Owner.
type PropertyFixture struct {
	Owner       string         `yaml:"owner"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	Price       string         `yaml:"price"`
	Address     string         `yaml:"address"`
	City        string         `yaml:"city"`
	Country     string         `yaml:"country"`
	SurfaceArea string         `yaml:"surface_area"`
	Rooms       int            `yaml:"rooms"`
	Bedrooms    int            `yaml:"bedrooms"`
	Bathrooms   int            `yaml:"bathrooms"`
	PostalCode  string         `yaml:"postal_code"`
	Latitude    *float64       `yaml:"latitude"`
	Longitude   *float64       `yaml:"longitude"`
	Category    string         `yaml:"category"`
	Status      string         `yaml:"status"`
	Amenities   []string       `yaml:"amenities"`
	Images      []ImageFixture `yaml:"images"`
}

// ImageFixture is one picture of a listing.
type ImageFixture struct {
	Path string `yaml:"path"`
	Main bool   `yaml:"main"`
}

// Result counts what a run inserted.
type Result struct {
	Users      int
	Categories int
	Properties int
	Images     int
}

// Parse decodes a fixture, rejecting unknown fields.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Seeder loads fixtures through the same services the API uses.
type Seeder struct {
	auth       service.AuthService
	categories service.CategoryService
	users      repository.UserRepository
	properties repository.PropertyRepository
	logger     *zap.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(
	auth service.AuthService,
	categories service.CategoryService,
	users repository.UserRepository,
	properties repository.PropertyRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		auth:       auth,
		categories: categories,
		users:      users,
		properties: properties,
		logger:     logger,
	}
}

// Run inserts the fixture. Users that already exist are reused, so a run
// against a seeded database only adds listings.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	categoryIDs := make(map[string]uint)
	ensureCategory := func(name string) (uint, error) {
		name = strings.TrimSpace(name)
		if id, ok := categoryIDs[name]; ok {
			return id, nil
		}
		c, err := s.categories.Ensure(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("category %q: %w", name, err)
		}
		categoryIDs[name] = c.ID
		res.Categories++
		return c.ID, nil
	}

	for _, name := range f.Categories {
		if _, err := ensureCategory(name); err != nil {
			return res, err
		}
	}

	owners := make(map[string]uint)
	for _, u := range f.Users {
		user, err := s.auth.Register(ctx, service.RegisterInput{
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Email:           u.Email,
			Phone:           u.Phone,
			Password:        u.Password,
			ConfirmPassword: u.Password,
			UserType:        u.UserType,
		})
		switch {
		case err == nil:
			res.Users++
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			user, err = s.users.FindByEmail(ctx, strings.TrimSpace(u.Email))
			if err != nil {
				return res, fmt.Errorf("load existing user %s: %w", u.Email, err)
			}
			s.logger.Info("user already seeded", zap.String("email", u.Email))
		default:
			return res, fmt.Errorf("register %s: %w", u.Email, err)
		}
		owners[user.Email] = user.ID
	}

	for i, pf := range f.Properties {
		p, err := s.buildProperty(pf, owners, ensureCategory)
		if err != nil {
			return res, fmt.Errorf("property %d (%s): %w", i, pf.Title, err)
		}
		if err := s.properties.Create(ctx, p); err != nil {
			return res, fmt.Errorf("create property %s: %w", pf.Title, err)
		}
		res.Properties++

		images := make([]model.PropertyImage, 0, len(pf.Images))
		for _, img := range pf.Images {
			images = append(images, model.PropertyImage{PropertyID: p.ID, ImagePath: img.Path, IsMain: img.Main})
		}
		if err := s.properties.AddImages(ctx, images); err != nil {
			return res, fmt.Errorf("add images for %s: %w", pf.Title, err)
		}
		res.Images += len(images)
	}

	return res, nil
}

func (s *Seeder) buildProperty(pf PropertyFixture, owners map[string]uint, ensureCategory func(string) (uint, error)) (*model.Property, error) {
	ownerID, ok := owners[strings.TrimSpace(pf.Owner)]
	if !ok {
		return nil, fmt.Errorf("unknown owner %q", pf.Owner)
	}

	propertyType := model.PropertyType(pf.Type)
	if !propertyType.Valid() {
		return nil, fmt.Errorf("invalid type %q", pf.Type)
	}

	price, err := decimal.NewFromString(pf.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", pf.Price, err)
	}
	surface := decimal.Zero
	if pf.SurfaceArea != "" {
		if surface, err = decimal.NewFromString(pf.SurfaceArea); err != nil {
			return nil, fmt.Errorf("invalid surface_area %q: %w", pf.SurfaceArea, err)
		}
	}

	status := model.PropertyStatusAvailable
	if pf.Status != "" {
		status = model.PropertyStatus(pf.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q", pf.Status)
		}
	}

	p := &model.Property{
		OwnerID:     ownerID,
		Title:       pf.Title,
		Description: pf.Description,
		Type:        propertyType,
		Price:       price,
		Address:     pf.Address,
		City:        pf.City,
		Country:     pf.Country,
		SurfaceArea: surface,
		Rooms:       pf.Rooms,
		Bedrooms:    pf.Bedrooms,
		Bathrooms:   pf.Bathrooms,
		PostalCode:  pf.PostalCode,
		Latitude:    pf.Latitude,
		Longitude:   pf.Longitude,
		Status:      status,
	}

	if pf.Category != "" {
		id, err := ensureCategory(pf.Category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &id
	}

	if len(pf.Amenities) > 0 {
		raw, err := json.Marshal(pf.Amenities)
		if err != nil {
			return nil, fmt.Errorf("encode amenities: %w", err)
		}
		p.Amenities = datatypes.JSON(raw)
	}
	return p, nil
}
