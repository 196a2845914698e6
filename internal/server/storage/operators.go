package storage

import (
	"context"

	"github.com/iudanet/liveview/internal/models"
)

// OperatorStorage defines interface for operator accounts persistence
type OperatorStorage interface {
	// CreateOperator creates a new operator account
	// Returns ErrOperatorAlreadyExists if username is taken
	CreateOperator(ctx context.Context, operator *models.Operator) error

	// GetOperatorByUsername retrieves operator by username
	// Returns ErrOperatorNotFound if operator doesn't exist
	GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
}
