package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"orbitdrive/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager(&Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func TestTokenManager_IssueVerify(t *testing.T) {
	asserts := assert.New(t)
	manager := newTestManager()
	user := &domain.User{ID: 42, Email: "alice@example.com"}

	token, err := manager.Issue(user)
	asserts.NoError(err)
	asserts.NotEmpty(token)

	principal, err := manager.Verify(token)
	asserts.NoError(err)
	asserts.Equal(int64(42), principal.ID)
	asserts.Equal("alice@example.com", principal.Email)
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	asserts := assert.New(t)
	manager := newTestManager()
	user := &domain.User{ID: 42, Email: "alice@example.com"}

	// Мусор вместо токена
	{
		principal, err := manager.Verify("not.a.token")
		asserts.Nil(principal)
		asserts.Error(err)
	}

	// Токен, подписанный другим секретом
	{
		foreign := NewTokenManager(&Config{JWTSecret: "other-secret", TokenTTL: time.Hour})
		token, err := foreign.Issue(user)
		asserts.NoError(err)

		principal, err := manager.Verify(token)
		asserts.Nil(principal)
		asserts.Error(err)
	}

	// Просроченный токен
	{
		expired := NewTokenManager(&Config{JWTSecret: "test-secret", TokenTTL: -time.Minute})
		token, err := expired.Issue(user)
		asserts.NoError(err)

		principal, err := manager.Verify(token)
		asserts.Nil(principal)
		asserts.Error(err)
	}
}

func TestMiddleware(t *testing.T) {
	asserts := assert.New(t)
	manager := newTestManager()
	user := &domain.User{ID: 42, Email: "alice@example.com"}

	var captured *domain.Principal
	handler := Middleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		asserts.NoError(err)
		captured = principal
		w.WriteHeader(http.StatusOK)
	}))

	// Валидный bearer-токен
	{
		token, err := manager.Issue(user)
		asserts.NoError(err)

		req := httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		asserts.Equal(http.StatusOK, rec.Code)
		asserts.NotNil(captured)
		asserts.Equal(int64(42), captured.ID)
	}

	// Без заголовка
	{
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		asserts.Equal(http.StatusUnauthorized, rec.Code)
		asserts.Nil(captured)
	}

	// Не bearer-схема
	{
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		asserts.Equal(http.StatusUnauthorized, rec.Code)
		asserts.Nil(captured)
	}

	// Испорченный токен
	{
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		asserts.Equal(http.StatusUnauthorized, rec.Code)
		asserts.Nil(captured)
	}
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	asserts := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	principal, err := PrincipalFromContext(req.Context())
	asserts.Nil(principal)
	asserts.Error(err)
}
