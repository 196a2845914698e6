package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/liveview/internal/crypto"
	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/jwt"
	"github.com/iudanet/liveview/internal/server/storage"
	"github.com/iudanet/liveview/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockOperatorStorage is a mock implementation of OperatorStorage for testing
type mockOperatorStorage struct {
	operators   map[string]*models.Operator // username -> Operator
	createError error
	getError    error
}

func (m *mockOperatorStorage) CreateOperator(ctx context.Context, operator *models.Operator) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.operators[operator.Username]; exists {
		return storage.ErrOperatorAlreadyExists
	}
	m.operators[operator.Username] = operator
	return nil
}

func (m *mockOperatorStorage) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	operator, ok := m.operators[username]
	if !ok {
		return nil, storage.ErrOperatorNotFound
	}
	return operator, nil
}

func newTestJWTService() *jwt.Service {
	return jwt.NewService("test-secret", 15*time.Minute)
}

func seedOperator(t *testing.T, password string) *mockOperatorStorage {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	return &mockOperatorStorage{
		operators: map[string]*models.Operator{
			"testuser": {
				ID:           "op-123",
				Username:     "testuser",
				PasswordHash: hash,
				CreatedAt:    time.Now(),
			},
		},
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	logger := setupTestLogger()
	operators := seedOperator(t, "correct-password")
	jwtSvc := newTestJWTService()

	handler := NewAuthHandler(logger, operators, jwtSvc)

	reqBody := api.LoginRequest{
		Username: "testuser",
		Password: "correct-password",
	}

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.TokenResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, int64(900), response.ExpiresIn)

	// Выданный токен должен проходить валидацию
	claims, err := jwtSvc.ValidateAccessToken(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "op-123", claims.OperatorID)
	assert.Equal(t, "testuser", claims.Username)
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	logger := setupTestLogger()
	operators := &mockOperatorStorage{operators: make(map[string]*models.Operator)}

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_InvalidFields(t *testing.T) {
	logger := setupTestLogger()
	operators := &mockOperatorStorage{operators: make(map[string]*models.Operator)}

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	tests := []struct {
		name    string
		request api.LoginRequest
	}{
		{
			name:    "empty username",
			request: api.LoginRequest{Username: "", Password: "password123"},
		},
		{
			name:    "too short username",
			request: api.LoginRequest{Username: "ab", Password: "password123"},
		},
		{
			name:    "invalid chars in username",
			request: api.LoginRequest{Username: "user@name", Password: "password123"},
		},
		{
			name:    "empty password",
			request: api.LoginRequest{Username: "testuser", Password: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.Login(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Login_OperatorNotFound(t *testing.T) {
	logger := setupTestLogger()
	operators := &mockOperatorStorage{operators: make(map[string]*models.Operator)}

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	reqBody := api.LoginRequest{
		Username: "nonexistent",
		Password: "password123",
	}

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// В ответе не должно быть различия с неверным паролем
	var response api.ErrorResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "invalid credentials", response.Message)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	logger := setupTestLogger()
	operators := seedOperator(t, "correct-password")

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	reqBody := api.LoginRequest{
		Username: "testuser",
		Password: "wrong-password",
	}

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response api.ErrorResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "invalid credentials", response.Message)
}

func TestAuthHandler_Login_StorageError(t *testing.T) {
	logger := setupTestLogger()
	operators := &mockOperatorStorage{
		operators: make(map[string]*models.Operator),
		getError:  errors.New("database error"),
	}

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	reqBody := api.LoginRequest{
		Username: "testuser",
		Password: "password123",
	}

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandler_Login_CorruptedHash(t *testing.T) {
	logger := setupTestLogger()
	operators := &mockOperatorStorage{
		operators: map[string]*models.Operator{
			"testuser": {
				ID:           "op-123",
				Username:     "testuser",
				PasswordHash: "not-a-valid-argon2-hash",
				CreatedAt:    time.Now(),
			},
		},
	}

	handler := NewAuthHandler(logger, operators, newTestJWTService())

	reqBody := api.LoginRequest{
		Username: "testuser",
		Password: "password123",
	}

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	// Испорченный хеш — внутренняя проблема, не ошибка учетных данных
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
