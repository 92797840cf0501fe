package auth

import (
	"net/http"
	"net/url"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"realestate/internal/model"
)

// LoginPage is where unauthorized visitors are sent with a return target.
const LoginPage = "login.php"

// LoadSession resolves the session cookie on every request and stores the
// Identity in the request context. Requests without a valid session
// continue as anonymous.
func LoadSession(sessions *SessionManager, logger *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + sessions.CookieName(),
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			req := c.Request()
			identity, err := sessions.Resolve(req.Context(), token)
			if err != nil {
				return nil, err
			}
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), identity)))
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, lookupErr := c.Cookie(sessions.CookieName()); lookupErr == nil {
				logger.Debug("ignoring session cookie", zap.Error(err))
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// RequireLogin rejects anonymous requests with a JSON body of the form
// {"success": false, "message": message}.
func RequireLogin(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !FromContext(c.Request().Context()).IsLoggedIn() {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": message,
				})
			}
			return next(c)
		}
	}
}

// RequireRole redirects visitors without the role to the login page,
// remembering where they were going.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !FromContext(c.Request().Context()).HasRole(role) {
				return c.Redirect(http.StatusFound, LoginRedirect(c.Request().URL.RequestURI()))
			}
			return next(c)
		}
	}
}

// LoginRedirect builds the login page location carrying returnTo.
func LoginRedirect(returnTo string) string {
	return LoginPage + "?redirect=" + url.QueryEscape(returnTo)
}
