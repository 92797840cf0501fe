package handler

import (
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/errors"
	"realestate/internal/service"
)

// Pages a logout may return to. Anything else falls back to the home page.
var logoutPages = map[string]bool{
	"index.php":    true,
	"login.php":    true,
	"register.php": true,
}

const homePage = "index.php"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *auth.SessionManager
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, logger: logger}
}

// RegisterRequest represents a registration form.
type RegisterRequest struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	UserType        string `json:"user_type" form:"user_type"`
}

// LoginRequest represents a login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	IsLoggedIn  bool   `json:"is_logged_in"`
	UserID      uint   `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	IsOwner     bool   `json:"is_owner"`
	IsTenant    bool   `json:"is_tenant"`
	IsAdmin     bool   `json:"is_admin"`
}

func newSessionResponse(id auth.Identity) SessionResponse {
	resp := SessionResponse{
		IsLoggedIn: id.IsLoggedIn(),
		UserType:   string(id.UserType()),
		IsOwner:    id.IsOwner(),
		IsTenant:   id.IsTenant(),
		IsAdmin:    id.IsAdmin(),
	}
	if resp.IsLoggedIn {
		resp.UserID = id.UserID
		resp.Email = id.Email
		resp.DisplayName = id.DisplayName
	}
	return resp
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account. The caller is not logged in afterwards.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        req.UserType,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful! Please log in.",
		"user":    user,
	})
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and sets the session cookie. Any session the request already had is ended first.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "Please enter your email and password",
			Code:  "VALIDATION_ERROR",
		})
	}

	ctx := c.Request().Context()
	if previous := auth.FromContext(ctx); previous.IsLoggedIn() {
		_ = h.authService.Logout(ctx, previous)
	}

	token, identity, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	c.SetCookie(h.sessions.Cookie(token))
	return c.JSON(http.StatusOK, newSessionResponse(identity))
}

// Logout godoc
// @Summary Log out
// @Description Ends the session, expires the cookie and redirects to an allowed page with logout=success.
// @Tags auth
// @Param redirect query string false "Page to return to (index.php, login.php or register.php)"
// @Success 302
// @Router /auth/logout [get]
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// a failed session delete still logs the browser out
	_ = h.authService.Logout(c.Request().Context(), auth.FromContext(c.Request().Context()))

	c.SetCookie(h.sessions.ExpiredCookie())
	return c.Redirect(http.StatusFound, logoutLocation(c.QueryParam("redirect")))
}

// Me godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, newSessionResponse(auth.FromContext(c.Request().Context())))
}

func (h *AuthHandler) fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// logoutLocation keeps only allow-listed page names from redirect.
func logoutLocation(redirect string) string {
	page := path.Base(redirect)
	if !logoutPages[page] {
		page = homePage
	}
	return page + "?logout=success"
}
