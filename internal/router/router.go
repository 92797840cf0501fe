package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/handler"
	"realestate/internal/model"
)

// Handlers groups the endpoint handlers mounted under /api.
type Handlers struct {
	Auth     *handler.AuthHandler
	Property *handler.PropertyHandler
	Favorite *handler.FavoriteHandler
	Category *handler.CategoryHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, logger *zap.Logger, sessions *auth.SessionManager, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Every API route sees the caller's identity, anonymous or not.
	api := e.Group("/api", auth.LoadSession(sessions, logger))

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/logout", h.Auth.Logout)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me)

	api.GET("/properties", h.Property.List)
	api.GET("/properties/details", h.Property.GetDetails)
	api.GET("/properties/contact", h.Property.GetContact, auth.RequireRole(model.RoleTenant))

	api.GET("/categories", h.Category.List)

	favorites := api.Group("/favorites", auth.RequireLogin(handler.LoginToFavoriteMessage))
	favorites.GET("", h.Favorite.List)
	favorites.POST("/toggle", h.Favorite.Toggle)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
