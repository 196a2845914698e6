package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/liveview/internal/client/auth"
	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL, nil)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Login проверяет успешный логин
func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// Логин не требует токена
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.LoginRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		assert.Equal(t, "operator", req.Username)
		assert.Equal(t, "secret-password", req.Password)

		w.WriteHeader(http.StatusOK)
		resp := api.TokenResponse{
			AccessToken: "access_token_123",
			ExpiresIn:   3600,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	ctx := context.Background()

	resp, err := client.Login(ctx, "operator", "secret-password")

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}

// TestClient_Login_InvalidCredentials проверяет обработку неверных учетных данных
func TestClient_Login_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		resp := api.ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid credentials",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	resp, err := client.Login(context.Background(), "operator", "wrong")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "server error (401): invalid credentials")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, http.StatusUnauthorized, queryErr.StatusCode)
	assert.False(t, queryErr.Retryable())
}

// TestClient_Query проверяет получение среза коллекции с параметрами
func TestClient_Query(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/records", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		// Параметры запроса передаются полностью
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("page_size"))
		assert.Equal(t, "updated_at", q.Get("sort"))
		assert.Equal(t, "asc", q.Get("order"))
		assert.Equal(t, "pending", q.Get("status"))
		assert.Equal(t, "refund", q.Get("search"))

		w.WriteHeader(http.StatusOK)
		resp := api.ListRecordsResponse{
			Items: []api.Record{
				{
					ID:        "rec-1",
					Status:    models.StatusPending,
					Fields:    map[string]string{"customer": "acme"},
					CreatedAt: now,
					UpdatedAt: now,
				},
			},
			TotalCount:   42,
			AsOfSequence: 1337,
			Page:         2,
			PageSize:     10,
			Sort:         "updated_at",
			Order:        "asc",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	snapshot, err := client.Query(context.Background(), models.Query{
		Page:     2,
		PageSize: 10,
		Sort:     models.SortUpdatedAt,
		Order:    models.OrderAsc,
		Status:   models.StatusPending,
		Search:   "refund",
	})

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 42, snapshot.TotalCount)
	assert.Equal(t, int64(1337), snapshot.AsOfSequence)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "rec-1", snapshot.Items[0].ID)
	assert.Equal(t, models.StatusPending, snapshot.Items[0].Status)
	assert.Equal(t, "acme", snapshot.Items[0].Fields["customer"])
	assert.Equal(t, now.Unix(), snapshot.Items[0].CreatedAt.Unix())
}

// TestClient_Query_Defaults проверяет что пустой запрос нормализуется
func TestClient_Query_Defaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "25", q.Get("page_size"))
		assert.Equal(t, "created_at", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		// Пустые фильтры не отправляются
		assert.False(t, q.Has("status"))
		assert.False(t, q.Has("search"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.ListRecordsResponse{Items: []api.Record{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	snapshot, err := client.Query(context.Background(), models.Query{})

	require.NoError(t, err)
	// Снапшот несет нормализованный запрос, а не исходный
	assert.Equal(t, 1, snapshot.Query.Page)
	assert.Equal(t, models.DefaultPageSize, snapshot.Query.PageSize)
	assert.Equal(t, models.SortCreatedAt, snapshot.Query.Sort)
	assert.Equal(t, models.OrderDesc, snapshot.Query.Order)
	assert.Empty(t, snapshot.Items)
}

// TestClient_Query_ServerError проверяет что 5xx распознается как временная ошибка
func TestClient_Query_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Error:   "unavailable",
			Message: "database is down",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	snapshot, err := client.Query(context.Background(), models.Query{})

	require.Error(t, err)
	assert.Nil(t, snapshot)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, http.StatusServiceUnavailable, queryErr.StatusCode)
	assert.True(t, queryErr.Retryable())
}

// TestClient_Query_NoToken проверяет что без токена запрос не отправляется
func TestClient_Query_NoToken(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic(""))

	_, err := client.Query(context.Background(), models.Query{})

	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthUnavailable)
	assert.Equal(t, 0, requests)
}

// TestClient_CreateRecord проверяет создание записи
func TestClient_CreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/records", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		var req api.CreateRecordRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "acme", req.Fields["customer"])

		w.WriteHeader(http.StatusCreated)
		resp := api.RecordResponse{
			Record: api.Record{
				ID:     "rec-new",
				Status: models.StatusPending,
				Fields: req.Fields,
			},
			Sequence: 7,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	resp, err := client.CreateRecord(context.Background(), api.CreateRecordRequest{
		Fields: map[string]string{"customer": "acme"},
	})

	require.NoError(t, err)
	assert.Equal(t, "rec-new", resp.Record.ID)
	assert.Equal(t, models.StatusPending, resp.Record.Status)
	assert.Equal(t, int64(7), resp.Sequence)
}

// TestClient_ChangeStatus проверяет смену статуса записи
func TestClient_ChangeStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/records/rec-1/status", r.URL.Path)

		var req api.ChangeStatusRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, req.Status)

		w.WriteHeader(http.StatusOK)
		resp := api.RecordResponse{
			Record:   api.Record{ID: "rec-1", Status: models.StatusApproved},
			Sequence: 8,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	resp, err := client.ChangeStatus(context.Background(), "rec-1", models.StatusApproved)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, resp.Record.Status)
	assert.Equal(t, int64(8), resp.Sequence)
}

// TestClient_ContextCancellation проверяет отмену запроса через контекст
func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Имитируем долгий запрос
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	resp, err := client.Login(ctx, "operator", "secret-password")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

// TestClient_InvalidJSON проверяет обработку невалидного JSON в ответе
func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	resp, err := client.Login(context.Background(), "operator", "secret-password")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to decode response")
}

// TestClient_HTTPClientRedirect проверяет что заголовок авторизации переживает редиректы
func TestClient_HTTPClientRedirect(t *testing.T) {
	redirectCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if redirectCount < 3 {
			redirectCount++
			w.Header().Set("Location", "/redirected")
			w.WriteHeader(http.StatusFound)
			return
		}

		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.ListRecordsResponse{Items: []api.Record{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStatic("test_token"))

	snapshot, err := client.Query(context.Background(), models.Query{})

	require.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Equal(t, 3, redirectCount) // Проверяем что было 3 редиректа
}
