package api

import (
	"context"

	"github.com/iudanet/liveview/internal/models"
)

//go:generate moq -out service_mock.go . QueryService

// QueryService описывает источник базовых срезов коллекции.
// Слой представления зависит от интерфейса, а не от HTTP клиента,
// чтобы согласование можно было тестировать без сервера.
type QueryService interface {
	// Query возвращает срез коллекции для заданных параметров
	Query(ctx context.Context, query models.Query) (*models.Snapshot, error)
}
