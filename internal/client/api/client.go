package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/liveview/internal/client/auth"
	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/pkg/api"
)

// QueryError представляет ошибку, которой сервер ответил на запрос.
// Сохраняет статус код, чтобы вызывающий мог решить, повторять ли запрос.
type QueryError struct {
	Message    string
	StatusCode int
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Retryable сообщает, временная ли это ошибка сервера
func (e *QueryError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	tokens     auth.TokenProvider
	baseURL    string
}

// NewClient создает новый API клиент. tokens может быть nil,
// тогда клиенту доступны только неавторизованные запросы.
func NewClient(baseURL string, tokens auth.TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Login выполняет аутентификацию оператора
func (c *Client) Login(ctx context.Context, username, password string) (*api.TokenResponse, error) {
	req := api.LoginRequest{Username: username, Password: password}

	var resp api.TokenResponse
	err := c.doRequest(ctx, "POST", "/api/v1/auth/login", req, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Query возвращает страницу коллекции для заданных параметров.
// Параметры нормализуются перед отправкой, поэтому ответ сервера
// всегда соответствует уже нормализованному запросу.
func (c *Client) Query(ctx context.Context, query models.Query) (*models.Snapshot, error) {
	q := query.Normalize()

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	params.Set("sort", q.Sort)
	params.Set("order", q.Order)
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var resp api.ListRecordsResponse
	err := c.doRequest(ctx, "GET", "/api/v1/records?"+params.Encode(), nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("list records request failed: %w", err)
	}

	items := make([]*models.Record, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, recordFromWire(&resp.Items[i]))
	}

	return &models.Snapshot{
		Query:        q,
		Items:        items,
		TotalCount:   resp.TotalCount,
		AsOfSequence: resp.AsOfSequence,
	}, nil
}

// CreateRecord создает новую запись коллекции
func (c *Client) CreateRecord(ctx context.Context, req api.CreateRecordRequest) (*api.RecordResponse, error) {
	var resp api.RecordResponse
	err := c.doRequest(ctx, "POST", "/api/v1/records", req, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("create record request failed: %w", err)
	}
	return &resp, nil
}

// UpdateRecord изменяет поля существующей записи
func (c *Client) UpdateRecord(ctx context.Context, id string, req api.UpdateRecordRequest) (*api.RecordResponse, error) {
	var resp api.RecordResponse
	err := c.doRequest(ctx, "PATCH", "/api/v1/records/"+url.PathEscape(id), req, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("update record request failed: %w", err)
	}
	return &resp, nil
}

// ChangeStatus меняет статус существующей записи
func (c *Client) ChangeStatus(ctx context.Context, id string, status string) (*api.RecordResponse, error) {
	req := api.ChangeStatusRequest{Status: status}

	var resp api.RecordResponse
	err := c.doRequest(ctx, "POST", "/api/v1/records/"+url.PathEscape(id)+"/status", req, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("change status request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, authed bool) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		if c.tokens == nil {
			return auth.ErrAuthUnavailable
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.Value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &QueryError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &QueryError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func recordFromWire(wire *api.Record) *models.Record {
	record := &models.Record{
		ID:        wire.ID,
		Status:    wire.Status,
		CreatedAt: wire.CreatedAt,
		UpdatedAt: wire.UpdatedAt,
	}
	if len(wire.Fields) > 0 {
		record.Fields = make(map[string]string, len(wire.Fields))
		for k, v := range wire.Fields {
			record.Fields[k] = v
		}
	}
	return record
}
