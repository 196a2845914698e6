package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func createTestRecord(t *testing.T, ctx context.Context, s *Storage, status string, createdAt time.Time) *models.Record {
	t.Helper()

	record := &models.Record{
		ID:     uuid.New().String(),
		Status: status,
		Fields: map[string]string{
			"customer": "acme",
			"amount":   "125.00",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, s.CreateRecord(ctx, record))
	return record
}

func TestRecordStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	created := createTestRecord(t, ctx, s, models.StatusPending, now)

	got, err := s.GetRecord(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "acme", got.Fields["customer"])
	assert.Equal(t, now.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, now.Unix(), got.UpdatedAt.Unix())
}

func TestRecordStorage_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetRecord(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestRecordStorage_CreateWithoutFields(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	record := &models.Record{
		ID:        uuid.New().String(),
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateRecord(ctx, record))

	got, err := s.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Fields)
}

func TestRecordStorage_UpdateFields(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	created := createTestRecord(t, ctx, s, models.StatusPending, now)

	later := now.Add(time.Minute)
	updated, err := s.UpdateRecordFields(ctx, created.ID, map[string]string{
		"amount":  "199.00",
		"comment": "price adjusted",
	}, later)
	require.NoError(t, err)

	// Присланные ключи перекрыты, не тронутые — сохранены
	assert.Equal(t, "199.00", updated.Fields["amount"])
	assert.Equal(t, "price adjusted", updated.Fields["comment"])
	assert.Equal(t, "acme", updated.Fields["customer"])
	assert.Equal(t, later.Unix(), updated.UpdatedAt.Unix())
	assert.Equal(t, now.Unix(), updated.CreatedAt.Unix())

	// Изменения персистентны
	got, err := s.GetRecord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "199.00", got.Fields["amount"])
	assert.Equal(t, "acme", got.Fields["customer"])
}

func TestRecordStorage_UpdateFieldsNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.UpdateRecordFields(ctx, uuid.New().String(), map[string]string{"a": "b"}, time.Now())
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestRecordStorage_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	created := createTestRecord(t, ctx, s, models.StatusPending, now)

	later := now.Add(time.Minute)
	updated, err := s.UpdateRecordStatus(ctx, created.ID, models.StatusApproved, later)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, later.Unix(), updated.UpdatedAt.Unix())
	// Поля не тронуты
	assert.Equal(t, "acme", updated.Fields["customer"])
}

func TestRecordStorage_UpdateStatusNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.UpdateRecordStatus(ctx, uuid.New().String(), models.StatusApproved, time.Now())
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestRecordStorage_ListDefaultOrder(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Now().UTC().Truncate(time.Second)
	oldest := createTestRecord(t, ctx, s, models.StatusPending, base.Add(-2*time.Hour))
	middle := createTestRecord(t, ctx, s, models.StatusApproved, base.Add(-time.Hour))
	newest := createTestRecord(t, ctx, s, models.StatusPending, base)

	result, err := s.ListRecords(ctx, models.Query{})
	require.NoError(t, err)

	// По умолчанию свежие сверху
	require.Len(t, result.Items, 3)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, newest.ID, result.Items[0].ID)
	assert.Equal(t, middle.ID, result.Items[1].ID)
	assert.Equal(t, oldest.ID, result.Items[2].ID)
}

func TestRecordStorage_ListStatusFilter(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Now().UTC().Truncate(time.Second)
	createTestRecord(t, ctx, s, models.StatusPending, base.Add(-time.Minute))
	approved := createTestRecord(t, ctx, s, models.StatusApproved, base)

	result, err := s.ListRecords(ctx, models.Query{Status: models.StatusApproved})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, approved.ID, result.Items[0].ID)
}

func TestRecordStorage_ListSearch(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Now().UTC().Truncate(time.Second)
	createTestRecord(t, ctx, s, models.StatusPending, base)

	special := &models.Record{
		ID:        uuid.New().String(),
		Status:    models.StatusPending,
		Fields:    map[string]string{"customer": "globex", "note": "refund requested"},
		CreatedAt: base.Add(time.Minute),
		UpdatedAt: base.Add(time.Minute),
	}
	require.NoError(t, s.CreateRecord(ctx, special))

	result, err := s.ListRecords(ctx, models.Query{Search: "refund"})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, special.ID, result.Items[0].ID)

	// Поиск с фильтром по статусу комбинируются
	result, err = s.ListRecords(ctx, models.Query{Search: "refund", Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalCount)
}

func TestRecordStorage_ListPagination(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Now().UTC().Truncate(time.Second)
	ids := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		record := &models.Record{
			ID:        fmt.Sprintf("rec-%d", i),
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateRecord(ctx, record))
		ids = append(ids, record.ID)
	}

	page1, err := s.ListRecords(ctx, models.Query{Page: 1, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	assert.Equal(t, 7, page1.TotalCount)
	assert.Equal(t, ids[6], page1.Items[0].ID)

	page3, err := s.ListRecords(ctx, models.Query{Page: 3, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, ids[0], page3.Items[0].ID)

	// Страница за пределами коллекции пуста, но TotalCount честный
	page4, err := s.ListRecords(ctx, models.Query{Page: 4, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, page4.Items)
	assert.Equal(t, 7, page4.TotalCount)
}

func TestRecordStorage_ListSortVariants(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Now().UTC().Truncate(time.Second)

	first := createTestRecord(t, ctx, s, models.StatusApproved, base.Add(-time.Hour))
	second := createTestRecord(t, ctx, s, models.StatusDeclined, base)

	// Обновим первый позже второго
	_, err := s.UpdateRecordFields(ctx, first.ID, map[string]string{"touched": "yes"}, base.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   models.Query
		firstID string
	}{
		{
			name:    "created_at ascending",
			query:   models.Query{Sort: models.SortCreatedAt, Order: models.OrderAsc},
			firstID: first.ID,
		},
		{
			name:    "updated_at descending",
			query:   models.Query{Sort: models.SortUpdatedAt, Order: models.OrderDesc},
			firstID: first.ID,
		},
		{
			name:    "status ascending",
			query:   models.Query{Sort: models.SortStatus, Order: models.OrderAsc},
			firstID: first.ID, // approved < declined
		},
		{
			name:    "status descending",
			query:   models.Query{Sort: models.SortStatus, Order: models.OrderDesc},
			firstID: second.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.ListRecords(ctx, tt.query)
			require.NoError(t, err)
			require.Len(t, result.Items, 2)
			assert.Equal(t, tt.firstID, result.Items[0].ID)
		})
	}
}
