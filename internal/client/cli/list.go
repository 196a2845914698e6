package cli

import (
	"context"
	"fmt"
)

// Одноразовый срез коллекции без живого канала.
func (c *Cli) runList(ctx context.Context, args []string) error {
	query, err := parseQueryFlags("list", args)
	if err != nil {
		return err
	}

	snapshot, err := c.service.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}

	data := newPageData(snapshot.Query, snapshot.Items, snapshot.TotalCount, false)
	if err := renderPage(c.io, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return nil
}
