package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client — клиент внешнего identity provider. Сервис не хранит учетные
// данные сам: создание аккаунта и проверка пароля делегируются провайдеру,
// локально остается только профиль пользователя.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg *Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.ProviderURL,
		apiKey:     cfg.APIKey,
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateAccount регистрирует учетную запись у провайдера и возвращает
// её внешний идентификатор.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (string, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

// VerifyCredentials проверяет пару email/пароль. Возвращает внешний
// идентификатор при успехе, ошибку при неверных данных.
func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *Client) call(ctx context.Context, endpoint, email, password string) (string, error) {
	body, err := json.Marshal(credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var account accountResponse
	if err := json.Unmarshal(data, &account); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if account.Error != nil {
			return "", fmt.Errorf("identity provider rejected request: %s", account.Error.Message)
		}
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	return account.LocalID, nil
}
