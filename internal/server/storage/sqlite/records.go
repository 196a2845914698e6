package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/storage"
)

// CreateRecord creates a new record in the storage
func (s *Storage) CreateRecord(ctx context.Context, record *models.Record) error {
	fields, err := marshalFields(record.Fields)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO records (id, status, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Status,
		fields,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetRecord retrieves a single record by ID
func (s *Storage) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	query := `
		SELECT id, status, fields, created_at, updated_at
		FROM records
		WHERE id = ?
	`

	return scanRecord(s.db.QueryRowContext(ctx, query, id))
}

// UpdateRecordFields merges the given fields into the record and bumps updated_at
func (s *Storage) UpdateRecordFields(ctx context.Context, id string, fields map[string]string, updatedAt time.Time) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	record, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT id, status, fields, created_at, updated_at FROM records WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	// Слияние: присланные ключи перекрывают существующие, остальные сохраняются
	if record.Fields == nil {
		record.Fields = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		record.Fields[k] = v
	}
	record.UpdatedAt = updatedAt

	merged, err := marshalFields(record.Fields)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE records SET fields = ?, updated_at = ? WHERE id = ?`,
		merged, updatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update record fields: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return record, nil
}

// UpdateRecordStatus sets a new status and bumps updated_at
func (s *Storage) UpdateRecordStatus(ctx context.Context, id string, status string, updatedAt time.Time) (*models.Record, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE records SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update record status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, storage.ErrRecordNotFound
	}

	return s.GetRecord(ctx, id)
}

// ListRecords returns one page of the collection for the given query
func (s *Storage) ListRecords(ctx context.Context, query models.Query) (*storage.ListResult, error) {
	q := query.Normalize()

	var conditions []string
	var args []interface{}

	if q.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, q.Status)
	}
	if q.Search != "" {
		// Подстрочный поиск по сериализованным полям; для админской
		// коллекции этого достаточно, полнотекстовый индекс не нужен
		conditions = append(conditions, "fields LIKE '%' || ? || '%'")
		args = append(args, q.Search)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records"+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	// Сортировка только по колонкам из белого списка, направление —
	// из двух констант; пользовательский ввод в ORDER BY не попадает
	pageQuery := "SELECT id, status, fields, created_at, updated_at FROM records" +
		where + " ORDER BY " + orderClause(q) + " LIMIT ? OFFSET ?"
	pageArgs := append(args, q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]*models.Record, 0, q.PageSize)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return &storage.ListResult{Items: items, TotalCount: total}, nil
}

// orderClause строит ORDER BY из нормализованного запроса.
// id вторым ключом стабилизирует порядок при равных значениях.
func orderClause(q models.Query) string {
	column := "created_at"
	switch q.Sort {
	case models.SortUpdatedAt:
		column = "updated_at"
	case models.SortStatus:
		column = "status"
	}

	direction := "DESC"
	if q.Order == models.OrderAsc {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

// scanner покрывает и *sql.Row, и *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*models.Record, error) {
	record := &models.Record{}
	var fields string

	err := row.Scan(
		&record.ID,
		&record.Status,
		&fields,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	record.Fields, err = unmarshalFields(fields)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func marshalFields(fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fields: %w", err)
	}
	return string(data), nil
}

func unmarshalFields(data string) (map[string]string, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}
	return fields, nil
}
