package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"office_records_go/config"
	"office_records_go/db"
	"office_records_go/middleware"
	"office_records_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Office{},
		&models.Record{},
		&models.TrashEntry{},
		&models.User{},
		&models.Session{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// actAs puts a user into the request context the way RequireAuth would
func actAs(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func adminUser() *models.User {
	return &models.User{
		ID:       uuid.New().String(),
		Name:     "Admin",
		Email:    "admin@example.com",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

func operatorFor(keys ...string) *models.User {
	user := &models.User{
		ID:       uuid.New().String(),
		Name:     "Operator",
		Email:    "operator@example.com",
		Role:     models.RoleOperator,
		IsActive: true,
	}
	for _, key := range keys {
		user.Offices = append(user.Offices, models.Office{Key: key, DisplayName: key})
	}
	return user
}

func viewerUser() *models.User {
	return &models.User{
		ID:       uuid.New().String(),
		Name:     "Viewer",
		Email:    "viewer@example.com",
		Role:     models.RoleViewer,
		IsActive: true,
	}
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if assert.True(t, ok, "expected *echo.HTTPError, got %v", err) {
		assert.Equal(t, want, httpErr.Code)
	}
}
