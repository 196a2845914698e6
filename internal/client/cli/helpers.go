package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/validation"
)

// parseQueryFlags разбирает общие флаги list/watch в запрос коллекции.
// Возвращает нормализованный и провалидированный Query.
func parseQueryFlags(name string, args []string) (models.Query, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	status := fs.String("status", "", "filter by status")
	search := fs.String("search", "", "substring search over record fields")
	sortBy := fs.String("sort", "", "sort field: created_at, updated_at, status")
	order := fs.String("order", "", "sort order: asc, desc")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", models.DefaultPageSize, "page size")

	if err := fs.Parse(args); err != nil {
		return models.Query{}, fmt.Errorf("invalid %s arguments: %w", name, err)
	}
	if fs.NArg() > 0 {
		return models.Query{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	query := models.Query{
		Status:   *status,
		Search:   strings.TrimSpace(*search),
		Sort:     *sortBy,
		Order:    *order,
		Page:     *page,
		PageSize: *pageSize,
	}.Normalize()

	if err := validation.ValidateQuery(query); err != nil {
		return models.Query{}, err
	}

	return query, nil
}

// parseFieldArgs разбирает позиционные аргументы вида key=value
// в поля записи. Пустые ключи запрещены, пустые значения допустимы
// (означают очистку поля).
func parseFieldArgs(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one field=value argument is required")
	}

	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field argument %q, expected key=value", arg)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid field argument %q, key cannot be empty", arg)
		}
		fields[key] = value
	}

	return fields, nil
}
