package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_VerifyCredentials(t *testing.T) {
	asserts := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asserts.Equal(http.MethodPost, r.Method)
		asserts.Equal("/v1/accounts:signInWithPassword", r.URL.Path)
		asserts.Equal("test-key", r.URL.Query().Get("key"))

		var req credentialsRequest
		asserts.NoError(json.NewDecoder(r.Body).Decode(&req))

		if req.Password != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "INVALID_PASSWORD"},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"localId": "ext-123",
			"email":   req.Email,
		})
	}))
	defer server.Close()

	client := NewClient(&Config{
		ProviderURL: server.URL,
		APIKey:      "test-key",
		TokenTTL:    time.Hour,
	})

	// Верный пароль
	{
		externalID, err := client.VerifyCredentials(context.Background(), "alice@example.com", "correct-horse")
		asserts.NoError(err)
		asserts.Equal("ext-123", externalID)
	}

	// Неверный пароль — ошибка с сообщением провайдера
	{
		externalID, err := client.VerifyCredentials(context.Background(), "alice@example.com", "wrong")
		asserts.Empty(externalID)
		asserts.ErrorContains(err, "INVALID_PASSWORD")
	}
}

func TestClient_CreateAccount(t *testing.T) {
	asserts := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asserts.Equal("/v1/accounts:signUp", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"localId": "ext-456"})
	}))
	defer server.Close()

	client := NewClient(&Config{ProviderURL: server.URL, APIKey: "test-key"})

	externalID, err := client.CreateAccount(context.Background(), "bob@example.com", "secret")
	asserts.NoError(err)
	asserts.Equal("ext-456", externalID)
}
