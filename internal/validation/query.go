package validation

import (
	"fmt"

	"github.com/iudanet/liveview/internal/models"
)

// Белые списки значений параметров запроса коллекции
var (
	allowedSorts = map[string]bool{
		models.SortCreatedAt: true,
		models.SortUpdatedAt: true,
		models.SortStatus:    true,
	}

	allowedOrders = map[string]bool{
		models.OrderAsc:  true,
		models.OrderDesc: true,
	}

	allowedStatuses = map[string]bool{
		models.StatusPending:   true,
		models.StatusApproved:  true,
		models.StatusDeclined:  true,
		models.StatusCompleted: true,
	}
)

// ValidateQuery проверяет нормализованный запрос коллекции.
// Вызывается сервером после разбора query-параметров.
func ValidateQuery(q models.Query) error {
	if q.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", q.Page)
	}

	if q.PageSize < 1 || q.PageSize > models.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", models.MaxPageSize, q.PageSize)
	}

	if !allowedSorts[q.Sort] {
		return fmt.Errorf("unsupported sort field %q", q.Sort)
	}

	if !allowedOrders[q.Order] {
		return fmt.Errorf("unsupported sort order %q", q.Order)
	}

	if q.Status != "" && !allowedStatuses[q.Status] {
		return fmt.Errorf("unknown status filter %q", q.Status)
	}

	return nil
}

// ValidateStatus проверяет значение статуса для мутации записи
func ValidateStatus(status string) error {
	if status == "" {
		return fmt.Errorf("status cannot be empty")
	}

	if !allowedStatuses[status] {
		return fmt.Errorf("unknown status %q", status)
	}

	return nil
}
