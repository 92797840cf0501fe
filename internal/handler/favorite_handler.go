package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/errors"
	"realestate/internal/service"
)

// LoginToFavoriteMessage is returned to anonymous callers of the favorite endpoints.
const LoginToFavoriteMessage = "Please log in to manage favorites"

// FavoriteHandler handles favorite endpoints.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
	logger          *zap.Logger
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService service.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService, logger: logger}
}

// ToggleResponse is the result of a favorite change.
type ToggleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Toggle godoc
// @Summary Add or remove a favorite
// @Description Adding twice and removing a missing favorite both succeed.
// @Tags favorites
// @Accept x-www-form-urlencoded
// @Produce json
// @Param property_id formData int true "Property ID"
// @Param action formData string true "add or remove"
// @Success 200 {object} ToggleResponse
// @Failure 400 {object} ToggleResponse
// @Failure 401 {object} ToggleResponse
// @Failure 404 {object} ToggleResponse
// @Failure 500 {object} ToggleResponse
// @Router /favorites/toggle [post]
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	propertyID, ok := parseID(c.FormValue("property_id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ToggleResponse{Message: "Invalid property"})
	}
	action, err := service.ParseFavoriteAction(c.FormValue("action"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	identity := auth.FromContext(ctx)
	if err := h.favoriteService.Toggle(ctx, identity.UserID, propertyID, action); err != nil {
		return h.fail(c, err)
	}

	message := "Added to favorites"
	if action == service.FavoriteRemove {
		message = "Removed from favorites"
	}
	return c.JSON(http.StatusOK, ToggleResponse{Success: true, Message: message})
}

// List godoc
// @Summary List the caller's favorites
// @Tags favorites
// @Produce json
// @Success 200 {array} PropertySummary
// @Failure 401 {object} ToggleResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	properties, err := h.favoriteService.List(ctx, auth.FromContext(ctx).UserID)
	if err != nil {
		h.logger.Error("list favorites", zap.Error(err))
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newPropertySummaries(properties))
}

func (h *FavoriteHandler) fail(c echo.Context, err error) error {
	if stderrors.Is(err, errors.ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, ToggleResponse{Message: LoginToFavoriteMessage})
	}
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("toggle favorite", zap.Error(err))
		return c.JSON(httpErr.StatusCode, ToggleResponse{Message: "An error occurred. Please try again."})
	}
	return c.JSON(httpErr.StatusCode, ToggleResponse{Message: httpErr.Message})
}
