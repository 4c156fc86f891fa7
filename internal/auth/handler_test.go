package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-service/internal/auth"
	"event-service/internal/logger"
	"event-service/internal/metrics"
	"event-service/internal/user"
	"event-service/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, (*user.User)(nil), (*auth.RefreshToken)(nil))

	mockMetrics := metrics.NewMock()
	log := logger.Discard()
	tokens := auth.NewTokenManager("test-secret-key-for-testing", 15*time.Minute)
	userRepo := user.NewRepository(pgContainer.DB, mockMetrics)
	authRepo := auth.NewRepository(pgContainer.DB, mockMetrics)
	authService := auth.NewService(authRepo, userRepo, tokens, 24*time.Hour, mockMetrics)
	authHandler := auth.NewHandler(authService, log, "unittest")

	router := chi.NewRouter()
	authHandler.RegisterRoutes(router)
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(tokens, log))
		authHandler.RegisterProtectedRoutes(r)
	})

	post := func(t *testing.T, path string, payload interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	seedUser := func(t *testing.T, email string, role user.Role) {
		t.Helper()
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		require.NoError(t, err)
		_, err = userRepo.Create(context.Background(), &user.User{
			Email:    email,
			Password: string(hashedPassword),
			FullName: "Seeded User",
			Role:     role,
			IsActive: true,
		})
		require.NoError(t, err)
	}

	t.Run("Register_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users", "refresh_tokens")

		w := post(t, "/auth/register", map[string]interface{}{
			"email":     "jane.doe@example.com",
			"password":  "password123",
			"full_name": "Jane Doe",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response auth.AuthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.NotEmpty(t, response.AccessToken)
		assert.NotEmpty(t, response.RefreshToken)
		assert.Equal(t, "bearer", response.TokenType)
		require.NotNil(t, response.User)
		assert.Equal(t, user.RoleStudent, response.User.Role)

		var foundAuthCookie bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "token" {
				foundAuthCookie = true
				assert.Equal(t, response.AccessToken, cookie.Value)
			}
		}
		assert.True(t, foundAuthCookie, "token cookie should be set")
	})

	t.Run("Register_DuplicateEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users", "refresh_tokens")
		seedUser(t, "duplicate@example.com", user.RoleStudent)

		w := post(t, "/auth/register", map[string]interface{}{
			"email":     "duplicate@example.com",
			"password":  "password456",
			"full_name": "New User",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email_exists")
	})

	t.Run("Register_ValidationError", func(t *testing.T) {
		w := post(t, "/auth/register", map[string]interface{}{
			"email":    "invalid",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Register_UnknownRole", func(t *testing.T) {
		w := post(t, "/auth/register", map[string]interface{}{
			"email":     "role@example.com",
			"password":  "password123",
			"full_name": "Role User",
			"role":      "superuser",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users", "refresh_tokens")
		seedUser(t, "login@example.com", user.RoleAdmin)

		w := post(t, "/auth/login", map[string]interface{}{
			"email":    "login@example.com",
			"password": "password123",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var response auth.AuthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, user.RoleAdmin, response.User.Role)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+response.AccessToken)
		me := httptest.NewRecorder()
		router.ServeHTTP(me, req)

		assert.Equal(t, http.StatusOK, me.Code)
		assert.Contains(t, me.Body.String(), "login@example.com")
		assert.NotContains(t, me.Body.String(), "hashed_password")
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users", "refresh_tokens")
		seedUser(t, "wrong@example.com", user.RoleStudent)

		w := post(t, "/auth/login", map[string]interface{}{
			"email":    "wrong@example.com",
			"password": "not-the-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")
	})

	t.Run("Refresh_And_Logout", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users", "refresh_tokens")
		seedUser(t, "refresh@example.com", user.RoleStudent)

		login := post(t, "/auth/login", map[string]interface{}{
			"email":    "refresh@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, login.Code)
		var first auth.AuthResponse
		require.NoError(t, json.NewDecoder(login.Body).Decode(&first))

		refreshed := post(t, "/auth/refresh", map[string]interface{}{"refresh_token": first.RefreshToken})
		require.Equal(t, http.StatusOK, refreshed.Code)
		var second auth.AuthResponse
		require.NoError(t, json.NewDecoder(refreshed.Body).Decode(&second))
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

		reused := post(t, "/auth/refresh", map[string]interface{}{"refresh_token": first.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, reused.Code)

		logout := post(t, "/auth/logout", map[string]interface{}{"refresh_token": second.RefreshToken})
		assert.Equal(t, http.StatusNoContent, logout.Code)

		afterLogout := post(t, "/auth/refresh", map[string]interface{}{"refresh_token": second.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, afterLogout.Code)
	})

	t.Run("Me_Unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
