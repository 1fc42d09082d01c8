package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"office_records_go/db"
	"office_records_go/middleware"
	"office_records_go/models"
	"office_records_go/services"

	"github.com/stretchr/testify/assert"
)

func createLoginUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := services.HashPassword(password)
	assert.NoError(t, err)
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		Role:     models.RoleOperator,
		IsActive: active,
	}
	assert.NoError(t, db.DB.Create(user).Error)
	return user
}

func TestLoginHandler(t *testing.T) {
	setupTestDB(t)
	createLoginUser(t, "ana@example.com", "secret-password", true)
	createLoginUser(t, "off@example.com", "secret-password", false)

	t.Run("Valid credentials set a session cookie", func(t *testing.T) {
		body := `{"email":"ana@example.com","password":"secret-password"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/login", strings.NewReader(body))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		found := false
		for _, cookie := range cookies {
			if cookie.Name == middleware.SessionCookieName {
				found = true
				assert.NotEmpty(t, cookie.Value)
				assert.True(t, cookie.HttpOnly)
			}
		}
		assert.True(t, found, "session cookie not set")

		// Password never leaks in the response
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		body := `{"email":"ana@example.com","password":"nope"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/login", strings.NewReader(body))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Deactivated account is unauthorized", func(t *testing.T) {
		body := `{"email":"off@example.com","password":"secret-password"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/login", strings.NewReader(body))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing fields are a bad request", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com"}`))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	setupTestDB(t)
	user := createLoginUser(t, "ana@example.com", "secret-password", true)

	session, err := services.CreateSession(db.DB, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/api/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	assert.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = services.ValidateSession(db.DB, session.Token)
	assert.Error(t, err)
}

func TestGetCurrentUserHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Returns the authenticated user", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/me", nil)
		actAs(c, adminUser())

		assert.NoError(t, GetCurrentUserHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var user models.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "admin@example.com", user.Email)
	})

	t.Run("Unauthorized without a user in context", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/me", nil)

		assertHTTPStatus(t, GetCurrentUserHandler(c), http.StatusUnauthorized)
	})
}
