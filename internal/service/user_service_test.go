package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/lib/pq"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// Фальшивый identity provider: единственная пара логин/пароль.
func newFakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.URL.Path == "/v1/accounts:signInWithPassword" && req.Password != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "INVALID_PASSWORD"},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"localId": "ext-123", "email": req.Email})
	}))
	t.Cleanup(server.Close)
	return server
}

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock, *auth.TokenManager) {
	t.Helper()
	db, mock := newTestDB(t)
	provider := newFakeProvider(t)

	cfg := &auth.Config{
		ProviderURL: provider.URL,
		APIKey:      "test-key",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
	}
	tokenManager := auth.NewTokenManager(cfg)
	svc := NewUserService(repository.NewUserRepository(db), auth.NewClient(cfg), tokenManager)
	return svc, mock, tokenManager
}

func TestUserService_Signup(t *testing.T) {
	asserts := assert.New(t)
	svc, mock, _ := newUserService(t)

	// Успешная регистрация
	{
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice@example.com", "Alice", "Doe", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(int64(1), time.Now()))

		user, err := svc.Signup(context.Background(), "alice@example.com", "correct-horse", "Alice", "Doe", nil)
		asserts.NoError(err)
		asserts.Equal(int64(1), user.ID)
		asserts.Equal("alice@example.com", user.Email)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Повторная регистрация того же email
	{
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice@example.com", "Alice", "Doe", nil).
			WillReturnError(&pq.Error{Code: "23505"})

		user, err := svc.Signup(context.Background(), "alice@example.com", "correct-horse", "Alice", "Doe", nil)
		asserts.Nil(user)
		asserts.ErrorIs(err, domain.ErrDuplicateEmail)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}

func TestUserService_Login(t *testing.T) {
	asserts := assert.New(t)
	svc, mock, tokenManager := newUserService(t)

	// Верный пароль: провайдер подтверждает, токен несет id и email
	{
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "lastname", "country_id", "created_at"}).
				AddRow(int64(1), "alice@example.com", "Alice", "Doe", nil, time.Now()))

		token, user, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
		asserts.NoError(err)
		asserts.Equal(int64(1), user.ID)

		principal, err := tokenManager.Verify(token)
		asserts.NoError(err)
		asserts.Equal(int64(1), principal.ID)
		asserts.Equal("alice@example.com", principal.Email)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Неверный пароль: до базы запрос не доходит
	{
		token, user, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		asserts.Empty(token)
		asserts.Nil(user)
		asserts.Error(err)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}
