package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/liveview/pkg/api"
)

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: liveview update <id> field=value ...")
	}

	id := args[0]
	fields, err := parseFieldArgs(args[1:])
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	resp, err := c.service.UpdateRecord(ctx, id, api.UpdateRecordRequest{Fields: fields})
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	c.io.Println("✓ Record updated!")
	c.io.Printf("ID:     %s\n", resp.Record.ID)
	c.io.Printf("Status: %s\n", resp.Record.Status)
	c.io.Printf("Fields: %s\n", fieldsLine(resp.Record.Fields))

	return nil
}
