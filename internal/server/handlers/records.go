package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/feed"
	"github.com/iudanet/liveview/internal/server/storage"
	"github.com/iudanet/liveview/internal/validation"
	"github.com/iudanet/liveview/pkg/api"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// OperatorIDKey ключ для хранения operator_id в контексте
	OperatorIDKey contextKey = "operator_id"
	// UsernameKey ключ для хранения username в контексте
	UsernameKey contextKey = "username"
)

// GetOperatorID извлекает operator_id из контекста запроса
func GetOperatorID(ctx context.Context) (string, bool) {
	operatorID, ok := ctx.Value(OperatorIDKey).(string)
	return operatorID, ok
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// RecordsHandler обрабатывает запросы к коллекции записей
type RecordsHandler struct {
	logger  *slog.Logger
	storage storage.RecordStorage
	feed    *feed.Hub
}

// NewRecordsHandler создает новый handler коллекции записей
func NewRecordsHandler(logger *slog.Logger, recordStorage storage.RecordStorage, hub *feed.Hub) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		storage: recordStorage,
		feed:    hub,
	}
}

// List обрабатывает GET /api/v1/records
// Возвращает страницу коллекции с фильтром, поиском и сортировкой
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := parseListQuery(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid list query", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	q := query.Normalize()
	if err := validation.ValidateQuery(q); err != nil {
		h.logger.WarnContext(ctx, "invalid list query", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	// Sequence читается ДО страницы: событие, успевшее между этими
	// двумя чтениями, получит номер больше as_of_sequence, и клиент
	// применит его поверх среза, ничего не потеряв
	asOf := h.feed.CurrentSequence()

	result, err := h.storage.ListRecords(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list records", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]api.Record, 0, len(result.Items))
	for _, record := range result.Items {
		items = append(items, toWireRecord(record))
	}

	resp := api.ListRecordsResponse{
		Items:        items,
		TotalCount:   result.TotalCount,
		AsOfSequence: asOf,
		Page:         q.Page,
		PageSize:     q.PageSize,
		Sort:         q.Sort,
		Order:        q.Order,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Create обрабатывает POST /api/v1/records
// Создает запись; id и времена назначает сервер
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if err := validation.ValidateStatus(status); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	record := &models.Record{
		ID:        uuid.New().String(),
		Status:    status,
		Fields:    req.Fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storage.CreateRecord(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to create record", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Событие рассылается после фиксации в хранилище
	seq := h.feed.Broadcast(api.ActionCreated, record)

	operatorID, _ := GetOperatorID(ctx)
	h.logger.InfoContext(ctx, "record created",
		slog.String("record_id", record.ID),
		slog.String("operator_id", operatorID),
		slog.Int64("sequence", seq))

	resp := api.RecordResponse{
		Record:   toWireRecord(record),
		Sequence: seq,
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// UpdateFields обрабатывает PATCH /api/v1/records/{id}
// Сливает присланные поля в запись
func (h *RecordsHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "record id is required", http.StatusBadRequest)
		return
	}

	var req api.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Fields) == 0 {
		sendError(h.logger, w, "fields are required", http.StatusBadRequest)
		return
	}

	record, err := h.storage.UpdateRecordFields(ctx, id, req.Fields, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			sendError(h.logger, w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update record", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	seq := h.feed.Broadcast(api.ActionUpdated, record)

	operatorID, _ := GetOperatorID(ctx)
	h.logger.InfoContext(ctx, "record updated",
		slog.String("record_id", record.ID),
		slog.String("operator_id", operatorID),
		slog.Int64("sequence", seq))

	resp := api.RecordResponse{
		Record:   toWireRecord(record),
		Sequence: seq,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// ChangeStatus обрабатывает POST /api/v1/records/{id}/status
// Меняет статус записи
func (h *RecordsHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "record id is required", http.StatusBadRequest)
		return
	}

	var req api.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode status request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateStatus(req.Status); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.storage.UpdateRecordStatus(ctx, id, req.Status, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			sendError(h.logger, w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to change record status", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	seq := h.feed.Broadcast(api.ActionStatusChanged, record)

	operatorID, _ := GetOperatorID(ctx)
	h.logger.InfoContext(ctx, "record status changed",
		slog.String("record_id", record.ID),
		slog.String("status", record.Status),
		slog.String("operator_id", operatorID),
		slog.Int64("sequence", seq))

	resp := api.RecordResponse{
		Record:   toWireRecord(record),
		Sequence: seq,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// parseListQuery разбирает query-параметры списка записей
func parseListQuery(r *http.Request) (models.Query, error) {
	params := r.URL.Query()

	query := models.Query{
		Status: params.Get("status"),
		Search: params.Get("search"),
		Sort:   params.Get("sort"),
		Order:  params.Get("order"),
	}

	if pageStr := params.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return models.Query{}, errors.New("invalid page parameter")
		}
		query.Page = page
	}

	if sizeStr := params.Get("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return models.Query{}, errors.New("invalid page_size parameter")
		}
		query.PageSize = size
	}

	return query, nil
}

func toWireRecord(record *models.Record) api.Record {
	return api.Record{
		ID:        record.ID,
		Status:    record.Status,
		Fields:    record.Fields,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
