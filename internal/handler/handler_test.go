package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, auth.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(auth.Identity), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, identity auth.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockPropertyService is a mock implementation of service.PropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) GetDetails(ctx context.Context, id uint) (*service.PropertyDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PropertyDetails), args.Error(1)
}

func (m *MockPropertyService) GetContact(ctx context.Context, id uint) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, filter service.ListFilter) (*service.PropertyPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PropertyPage), args.Error(1)
}

// MockFavoriteService is a mock implementation of service.FavoriteService.
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Toggle(ctx context.Context, userID, propertyID uint, action service.FavoriteAction) error {
	args := m.Called(ctx, userID, propertyID, action)
	return args.Error(0)
}

func (m *MockFavoriteService) List(ctx context.Context, userID uint) ([]model.Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

type structValidator struct {
	v *validator.Validate
}

func (s *structValidator) Validate(i interface{}) error {
	return s.v.Struct(i)
}

var (
	tenant = auth.Identity{SessionID: "s-tenant", UserID: 3, Email: "tom@example.com", DisplayName: "Tom Ek", Role: model.RoleTenant}
	lister = &model.User{ID: 1, Email: "olga@example.com", FirstName: "olga", LastName: "berg", Phone: "0102030405", Role: model.RoleOwner}
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &structValidator{v: validator.New()}
	return e
}

func testSessions() *auth.SessionManager {
	return auth.NewSessionManager(nil, auth.NewTokenSigner("test-secret"), time.Hour, auth.CookieConfig{Name: "estate_session"})
}

// serve runs req through e, attaching identity to the request context when it is logged in.
func serve(e *echo.Echo, req *http.Request, identity auth.Identity) *httptest.ResponseRecorder {
	if identity.IsLoggedIn() {
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestLogoutLocation(t *testing.T) {
	tests := []struct {
		redirect string
		want     string
	}{
		{"login.php", "login.php?logout=success"},
		{"register.php", "register.php?logout=success"},
		{"index.php", "index.php?logout=success"},
		{"/app/login.php", "login.php?logout=success"},
		{"evil.com/x", "index.php?logout=success"},
		{"https://evil.com/", "index.php?logout=success"},
		{"dashboard.php", "index.php?logout=success"},
		{"", "index.php?logout=success"},
	}

	for _, tt := range tests {
		t.Run(tt.redirect, func(t *testing.T) {
			assert.Equal(t, tt.want, logoutLocation(tt.redirect))
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	authService := new(MockAuthService)
	h := NewAuthHandler(authService, testSessions(), zap.NewNop())
	e := newTestEcho()
	e.GET("/logout", h.Logout)

	authService.On("Logout", mock.Anything, tenant).Return(nil).Once()

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/logout?redirect=login.php", nil), tenant)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "login.php?logout=success", rec.Header().Get(echo.HeaderLocation))
	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "estate_session=;")
	assert.Contains(t, cookie, "Max-Age=0")
	assert.Contains(t, cookie, "HttpOnly")
	authService.AssertExpectations(t)
}

func TestAuthHandler_LogoutSurvivesStoreFailure(t *testing.T) {
	authService := new(MockAuthService)
	h := NewAuthHandler(authService, testSessions(), zap.NewNop())
	e := newTestEcho()
	e.GET("/logout", h.Logout)

	authService.On("Logout", mock.Anything, tenant).Return(assert.AnError)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/logout?redirect=evil.com/x", nil), tenant)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "index.php?logout=success", rec.Header().Get(echo.HeaderLocation))
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("sets the session cookie", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/login", h.Login)

		authService.On("Login", mock.Anything, "tom@example.com", "password123").Return("signed-token", tenant, nil)

		rec := serve(e, formRequest("/login", url.Values{"email": {"tom@example.com"}, "password": {"password123"}}), auth.Identity{})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "estate_session=signed-token")
		var body SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.IsLoggedIn)
		assert.True(t, body.IsTenant)
		assert.False(t, body.IsOwner)
		assert.Equal(t, "tenant", body.UserType)
		authService.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})

	t.Run("ends the previous session first", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/login", h.Login)

		authService.On("Logout", mock.Anything, tenant).Return(nil).Once()
		authService.On("Login", mock.Anything, "tom@example.com", "password123").Return("fresh", tenant, nil)

		rec := serve(e, formRequest("/login", url.Values{"email": {"tom@example.com"}, "password": {"password123"}}), tenant)

		assert.Equal(t, http.StatusOK, rec.Code)
		authService.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/login", h.Login)

		authService.On("Login", mock.Anything, "tom@example.com", "nope").Return("", auth.Identity{}, errors.ErrInvalidCredentials)

		rec := serve(e, formRequest("/login", url.Values{"email": {"tom@example.com"}, "password": {"nope"}}), auth.Identity{})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("missing fields", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/login", h.Login)

		rec := serve(e, formRequest("/login", url.Values{"email": {"tom@example.com"}}), auth.Identity{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		authService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	form := url.Values{
		"first_name":       {"Tom"},
		"last_name":        {"Ek"},
		"email":            {"tom@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password124"},
		"user_type":        {"tenant"},
	}

	t.Run("validation message surfaces", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/register", h.Register)

		authService.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
			return in.ConfirmPassword == "password124" && in.UserType == "tenant"
		})).Return(nil, errors.NewValidationError("Passwords do not match"))

		rec := serve(e, formRequest("/register", form), auth.Identity{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Passwords do not match","code":"VALIDATION_ERROR"}`, rec.Body.String())
	})

	t.Run("created without a session", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/register", h.Register)

		authService.On("Register", mock.Anything, mock.Anything).Return(&model.User{ID: 9, Email: "tom@example.com", PasswordHash: "secret-hash"}, nil)

		rec := serve(e, formRequest("/register", form), auth.Identity{})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		authService := new(MockAuthService)
		h := NewAuthHandler(authService, testSessions(), zap.NewNop())
		e := newTestEcho()
		e.POST("/register", h.Register)

		authService.On("Register", mock.Anything, mock.Anything).Return(nil, errors.ErrUserAlreadyExists)

		rec := serve(e, formRequest("/register", form), auth.Identity{})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService), testSessions(), zap.NewNop())
	e := newTestEcho()
	e.GET("/me", h.Me)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil), auth.Identity{})
	assert.JSONEq(t, `{"is_logged_in":false,"is_owner":false,"is_tenant":false,"is_admin":false}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/me", nil), tenant)
	var body SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsLoggedIn)
	assert.Equal(t, uint(3), body.UserID)
	assert.Equal(t, "Tom Ek", body.DisplayName)
}

func detailsFixture(access service.ViewerAccess, isFavorite bool) *service.PropertyDetails {
	category := &model.Category{ID: 2, Name: "Apartment"}
	return &service.PropertyDetails{
		Property: &model.Property{
			ID:       5,
			OwnerID:  lister.ID,
			Title:    "Loft",
			Type:     model.PropertyTypeSale,
			Price:    decimal.NewFromInt(250000),
			City:     "Lyon",
			Status:   model.PropertyStatusAvailable,
			Owner:    *lister,
			Category: category,
		},
		Images: []model.PropertyImage{{ID: 1, PropertyID: 5, ImagePath: "front.jpg", IsMain: true}},
		Similar: []model.Property{{
			ID:     6,
			Title:  "Studio",
			City:   "Lyon",
			Images: []model.PropertyImage{{ID: 4, PropertyID: 6, ImagePath: "studio.jpg", IsMain: true}},
		}},
		IsFavorite: isFavorite,
		Access:     access,
	}
}

func TestPropertyHandler_GetDetails(t *testing.T) {
	t.Run("malformed id redirects to the listing", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/details", NewPropertyHandler(svc, zap.NewNop()).GetDetails)

		for _, target := range []string{"/details", "/details?id=abc", "/details?id=-1", "/details?id=0"} {
			rec := serve(e, httptest.NewRequest(http.MethodGet, target, nil), auth.Identity{})
			assert.Equal(t, http.StatusFound, rec.Code, target)
			assert.Equal(t, ListingPage, rec.Header().Get(echo.HeaderLocation), target)
		}
		svc.AssertNotCalled(t, "GetDetails", mock.Anything, mock.Anything)
	})

	t.Run("hidden property redirects to the listing", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/details", NewPropertyHandler(svc, zap.NewNop()).GetDetails)
		svc.On("GetDetails", mock.Anything, uint(77)).Return(nil, errors.ErrPropertyNotFound)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/details?id=77", nil), auth.Identity{})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, ListingPage, rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/details", NewPropertyHandler(svc, zap.NewNop()).GetDetails)
		svc.On("GetDetails", mock.Anything, uint(5)).Return(detailsFixture(service.ViewerAccess{}, false), nil)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/details?id=5", nil), auth.Identity{})

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body, "is_favorite")
		assert.NotContains(t, rec.Body.String(), "olga@example.com")
		owner := body["owner"].(map[string]interface{})
		assert.Equal(t, "OB", owner["initials"])
		assert.Equal(t, "olga berg", owner["name"])
		assert.Equal(t, "Apartment", body["category"])
		similar := body["similar"].([]interface{})
		require.Len(t, similar, 1)
		assert.Equal(t, "studio.jpg", similar[0].(map[string]interface{})["main_image"])
	})

	t.Run("tenant viewer", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/details", NewPropertyHandler(svc, zap.NewNop()).GetDetails)
		access := service.ViewerAccess{ShowOwnerEmail: true, CanContact: true, CanFavorite: true}
		svc.On("GetDetails", mock.Anything, uint(5)).Return(detailsFixture(access, false), nil)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/details?id=5", nil), tenant)

		require.Equal(t, http.StatusOK, rec.Code)
		var body PropertyDetailsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.IsFavorite)
		assert.False(t, *body.IsFavorite)
		assert.Equal(t, "olga@example.com", body.Owner.Email)
		assert.True(t, body.Access.CanContact)
	})
}

func TestPropertyHandler_List(t *testing.T) {
	t.Run("filters reach the service", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/properties", NewPropertyHandler(svc, zap.NewNop()).List)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f service.ListFilter) bool {
			return f.City == "Lyon" &&
				f.Type == model.PropertyTypeRental &&
				f.CategoryID != nil && *f.CategoryID == 2 &&
				f.MinPrice != nil && f.MinPrice.Equal(decimal.NewFromInt(500)) &&
				f.MaxPrice == nil &&
				f.Page == 2 && f.PerPage == 5
		})).Return(&service.PropertyPage{Items: []model.Property{{ID: 1, Title: "Flat"}}, Total: 6, Page: 2, PerPage: 5}, nil)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/properties?city=Lyon&type=rental&category_id=2&min_price=500&page=2&per_page=5", nil), auth.Identity{})

		require.Equal(t, http.StatusOK, rec.Code)
		var body PropertyListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(6), body.Total)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "Flat", body.Items[0].Title)
		svc.AssertExpectations(t)
	})

	t.Run("bad filters are rejected", func(t *testing.T) {
		svc := new(MockPropertyService)
		e := newTestEcho()
		e.GET("/properties", NewPropertyHandler(svc, zap.NewNop()).List)

		for _, q := range []string{"type=castle", "category_id=x", "min_price=cheap", "page=two"} {
			rec := serve(e, httptest.NewRequest(http.MethodGet, "/properties?"+q, nil), auth.Identity{})
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestPropertyHandler_GetContact(t *testing.T) {
	svc := new(MockPropertyService)
	e := newTestEcho()
	e.GET("/contact", NewPropertyHandler(svc, zap.NewNop()).GetContact)
	svc.On("GetContact", mock.Anything, uint(5)).Return(&model.Property{ID: 5, Title: "Loft", Owner: *lister}, nil)
	svc.On("GetContact", mock.Anything, uint(6)).Return(nil, errors.ErrPropertyNotFound)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/contact?id=5", nil), tenant)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"property_id":5,"title":"Loft","name":"olga berg","email":"olga@example.com","phone":"0102030405"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/contact?id=6", nil), tenant)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestFavoriteHandler_Toggle(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		identity   auth.Identity
		setup      func(m *MockFavoriteService)
		wantStatus int
		wantBody   string
	}{
		{
			name:     "add",
			form:     url.Values{"property_id": {"5"}, "action": {"add"}},
			identity: tenant,
			setup: func(m *MockFavoriteService) {
				m.On("Toggle", mock.Anything, tenant.UserID, uint(5), service.FavoriteAdd).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"Added to favorites"}`,
		},
		{
			name:     "remove",
			form:     url.Values{"property_id": {"5"}, "action": {"remove"}},
			identity: tenant,
			setup: func(m *MockFavoriteService) {
				m.On("Toggle", mock.Anything, tenant.UserID, uint(5), service.FavoriteRemove).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"Removed from favorites"}`,
		},
		{
			name:     "unknown property",
			form:     url.Values{"property_id": {"404"}, "action": {"add"}},
			identity: tenant,
			setup: func(m *MockFavoriteService) {
				m.On("Toggle", mock.Anything, tenant.UserID, uint(404), service.FavoriteAdd).Return(errors.ErrPropertyNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"message":"Property not found"}`,
		},
		{
			name:       "invalid action",
			form:       url.Values{"property_id": {"5"}, "action": {"flip"}},
			identity:   tenant,
			setup:      func(m *MockFavoriteService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Invalid action"}`,
		},
		{
			name:       "invalid property id",
			form:       url.Values{"property_id": {"five"}, "action": {"add"}},
			identity:   tenant,
			setup:      func(m *MockFavoriteService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Invalid property"}`,
		},
		{
			name:     "anonymous",
			form:     url.Values{"property_id": {"5"}, "action": {"add"}},
			identity: auth.Identity{},
			setup: func(m *MockFavoriteService) {
				m.On("Toggle", mock.Anything, uint(0), uint(5), service.FavoriteAdd).Return(errors.ErrUnauthenticated)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"message":"Please log in to manage favorites"}`,
		},
		{
			name:     "storage failure",
			form:     url.Values{"property_id": {"5"}, "action": {"add"}},
			identity: tenant,
			setup: func(m *MockFavoriteService) {
				m.On("Toggle", mock.Anything, tenant.UserID, uint(5), service.FavoriteAdd).Return(assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"An error occurred. Please try again."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFavoriteService)
			tt.setup(svc)
			e := newTestEcho()
			e.POST("/toggle", NewFavoriteHandler(svc, zap.NewNop()).Toggle)

			rec := serve(e, formRequest("/toggle", tt.form), tt.identity)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestFavoriteHandler_List(t *testing.T) {
	svc := new(MockFavoriteService)
	e := newTestEcho()
	e.GET("/favorites", NewFavoriteHandler(svc, zap.NewNop()).List)
	svc.On("List", mock.Anything, tenant.UserID).Return([]model.Property{{ID: 5, Title: "Loft"}}, nil)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/favorites", nil), tenant)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []PropertySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, uint(5), body[0].ID)
}
