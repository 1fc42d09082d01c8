package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"office_records_go/db"
	"office_records_go/models"
	"office_records_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = testDB.AutoMigrate(&models.Office{}, &models.User{}, &models.Session{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if assert.True(t, ok, "expected *echo.HTTPError, got %v", err) {
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "hash",
		Role:     models.RoleOperator,
		IsActive: true,
	}
	testDB.Create(&user)

	session, _ := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
	})

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/offices", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		assertUnauthorized(t, handler(c))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/offices", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		assertUnauthorized(t, handler(c))
	})

	t.Run("InactiveUser", func(t *testing.T) {
		inactiveUser := models.User{
			ID:       uuid.New().String(),
			Name:     "Inactive User",
			Email:    "inactive@example.com",
			Password: "hash",
			Role:     models.RoleViewer,
			IsActive: false,
		}
		testDB.Create(&inactiveUser)

		// The false must survive the insert as-is
		var stored models.User
		testDB.First(&stored, "id = ?", inactiveUser.ID)
		assert.False(t, stored.IsActive)

		session, _ := services.CreateSession(testDB, inactiveUser.ID, "", "")

		req := httptest.NewRequest(http.MethodGet, "/api/offices", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		assertUnauthorized(t, handler(c))
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	call := func(user *models.User, roles ...string) (error, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(ContextKeyUser, user)
		}

		handler := RequireRole(roles...)(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})
		return handler(c), rec
	}

	t.Run("MatchingRole", func(t *testing.T) {
		err, rec := call(&models.User{Role: models.RoleAdmin, IsActive: true}, models.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("WrongRole", func(t *testing.T) {
		err, _ := call(&models.User{Role: models.RoleViewer, IsActive: true}, models.RoleAdmin)
		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusForbidden, httpErr.Code)
		}
	})

	t.Run("NoUser", func(t *testing.T) {
		err, _ := call(nil, models.RoleAdmin)
		assertUnauthorized(t, err)
	})
}
