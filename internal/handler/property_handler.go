package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/service"
)

// ListingPage is where detail requests for unknown or hidden properties end up.
const ListingPage = "properties.php"

// PropertyHandler handles property endpoints.
type PropertyHandler struct {
	propertyService service.PropertyService
	logger          *zap.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, logger: logger}
}

// OwnerView is the lister as shown on a detail page.
type OwnerView struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PropertySummary is a listing card.
type PropertySummary struct {
	ID        uint                 `json:"id"`
	Title     string               `json:"title"`
	Type      model.PropertyType   `json:"type"`
	Price     decimal.Decimal      `json:"price"`
	City      string               `json:"city"`
	Bedrooms  int                  `json:"bedrooms"`
	Bathrooms int                  `json:"bathrooms"`
	Category  string               `json:"category,omitempty"`
	MainImage string               `json:"main_image,omitempty"`
	Status    model.PropertyStatus `json:"status"`
}

// PropertyDetailsResponse is the detail page payload.
type PropertyDetailsResponse struct {
	Property   *model.Property       `json:"property"`
	Category   string                `json:"category,omitempty"`
	Owner      OwnerView             `json:"owner"`
	Images     []model.PropertyImage `json:"images"`
	Similar    []PropertySummary     `json:"similar"`
	IsFavorite *bool                 `json:"is_favorite,omitempty"`
	Access     service.ViewerAccess  `json:"access"`
}

// PropertyListResponse is one page of listings.
type PropertyListResponse struct {
	Items   []PropertySummary `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// ContactResponse carries the owner's contact details.
type ContactResponse struct {
	PropertyID uint   `json:"property_id"`
	Title      string `json:"title"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
}

func newPropertySummary(p *model.Property) PropertySummary {
	s := PropertySummary{
		ID:        p.ID,
		Title:     p.Title,
		Type:      p.Type,
		Price:     p.Price,
		City:      p.City,
		Bedrooms:  p.Bedrooms,
		Bathrooms: p.Bathrooms,
		Status:    p.Status,
	}
	if p.Category != nil {
		s.Category = p.Category.Name
	}
	if img := p.MainImage(); img != nil {
		s.MainImage = img.ImagePath
	}
	return s
}

func newPropertySummaries(properties []model.Property) []PropertySummary {
	out := make([]PropertySummary, 0, len(properties))
	for i := range properties {
		out = append(out, newPropertySummary(&properties[i]))
	}
	return out
}

// GetDetails godoc
// @Summary Property detail page
// @Description Returns an available property with its images, similar listings and what the viewer may do.
// @Description Missing, unavailable or malformed ids redirect to the listing page.
// @Tags properties
// @Produce json
// @Param id query int true "Property ID"
// @Success 200 {object} PropertyDetailsResponse
// @Success 302
// @Router /properties/details [get]
func (h *PropertyHandler) GetDetails(c echo.Context) error {
	id, ok := parseID(c.QueryParam("id"))
	if !ok {
		return c.Redirect(http.StatusFound, ListingPage)
	}

	ctx := c.Request().Context()
	details, err := h.propertyService.GetDetails(ctx, id)
	if err != nil {
		return c.Redirect(http.StatusFound, ListingPage)
	}

	p := details.Property
	resp := PropertyDetailsResponse{
		Property: p,
		Owner: OwnerView{
			Name:     p.Owner.DisplayName(),
			Initials: p.Owner.Initials(),
			Phone:    p.Owner.Phone,
		},
		Images:  details.Images,
		Similar: newPropertySummaries(details.Similar),
		Access:  details.Access,
	}
	if resp.Images == nil {
		resp.Images = []model.PropertyImage{}
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	if details.Access.ShowOwnerEmail {
		resp.Owner.Email = p.Owner.Email
	}
	if auth.FromContext(ctx).IsLoggedIn() {
		isFavorite := details.IsFavorite
		resp.IsFavorite = &isFavorite
	}
	return c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Browse available properties
// @Tags properties
// @Produce json
// @Param city query string false "City"
// @Param type query string false "sale or rental"
// @Param category_id query int false "Category ID"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param page query int false "Page, starting at 1"
// @Param per_page query int false "Page size (max 50)"
// @Success 200 {object} PropertyListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_FILTER",
		})
	}

	page, err := h.propertyService.List(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("list properties", zap.Error(err))
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, PropertyListResponse{
		Items:   newPropertySummaries(page.Items),
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}

// GetContact godoc
// @Summary Owner contact details
// @Description Tenants only. Other visitors are redirected to the login page with a return target.
// @Tags properties
// @Produce json
// @Param id query int true "Property ID"
// @Success 200 {object} ContactResponse
// @Success 302
// @Router /properties/contact [get]
func (h *PropertyHandler) GetContact(c echo.Context) error {
	id, ok := parseID(c.QueryParam("id"))
	if !ok {
		return c.Redirect(http.StatusFound, ListingPage)
	}

	p, err := h.propertyService.GetContact(c.Request().Context(), id)
	if err != nil {
		return c.Redirect(http.StatusFound, ListingPage)
	}

	return c.JSON(http.StatusOK, ContactResponse{
		PropertyID: p.ID,
		Title:      p.Title,
		Name:       p.Owner.DisplayName(),
		Email:      p.Owner.Email,
		Phone:      p.Owner.Phone,
	})
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseListFilter(c echo.Context) (service.ListFilter, error) {
	var filter service.ListFilter
	filter.City = strings.TrimSpace(c.QueryParam("city"))

	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		t := model.PropertyType(raw)
		if !t.Valid() {
			return filter, stderrors.New("type must be sale or rental")
		}
		filter.Type = t
	}

	if raw := c.QueryParam("category_id"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return filter, stderrors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}

	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
	} {
		raw := strings.TrimSpace(c.QueryParam(bound.name))
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, stderrors.New("invalid " + bound.name)
		}
		*bound.dst = &v
	}

	err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		Int("per_page", &filter.PerPage).
		BindError()
	if err != nil {
		return filter, stderrors.New("page and per_page must be integers")
	}
	return filter, nil
}
