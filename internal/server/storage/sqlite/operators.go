package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/storage"
)

// CreateOperator creates a new operator account
func (s *Storage) CreateOperator(ctx context.Context, operator *models.Operator) error {
	query := `
		INSERT INTO operators (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		operator.ID,
		operator.Username,
		operator.PasswordHash,
		operator.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: operators.username") {
			return storage.ErrOperatorAlreadyExists
		}
		return fmt.Errorf("failed to insert operator: %w", err)
	}

	return nil
}

// GetOperatorByUsername retrieves operator by username
func (s *Storage) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM operators
		WHERE username = ?
	`

	operator := &models.Operator{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&operator.ID,
		&operator.Username,
		&operator.PasswordHash,
		&operator.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	return operator, nil
}
