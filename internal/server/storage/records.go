package storage

import (
	"context"
	"time"

	"github.com/iudanet/liveview/internal/models"
)

// ListResult represents one page of the collection together with the
// total count under the same filter
type ListResult struct {
	Items      []*models.Record
	TotalCount int
}

// RecordStorage defines interface for collection records persistence
type RecordStorage interface {
	// CreateRecord creates a new record in the storage
	CreateRecord(ctx context.Context, record *models.Record) error

	// GetRecord retrieves a single record by ID
	// Returns ErrRecordNotFound if record doesn't exist
	GetRecord(ctx context.Context, id string) (*models.Record, error)

	// UpdateRecordFields merges the given fields into the record and
	// bumps updated_at. Existing keys are overwritten, other keys are kept.
	// Returns ErrRecordNotFound if record doesn't exist
	UpdateRecordFields(ctx context.Context, id string, fields map[string]string, updatedAt time.Time) (*models.Record, error)

	// UpdateRecordStatus sets a new status and bumps updated_at.
	// Returns ErrRecordNotFound if record doesn't exist
	UpdateRecordStatus(ctx context.Context, id string, status string, updatedAt time.Time) (*models.Record, error)

	// ListRecords returns one page of the collection for the given
	// query (status filter, substring search, sort, pagination)
	ListRecords(ctx context.Context, query models.Query) (*ListResult, error)
}
