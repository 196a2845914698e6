package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/liveview/internal/validation"
)

func (c *Cli) runSetStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: liveview set-status <id> <status>")
	}

	id, status := args[0], args[1]
	if err := validation.ValidateStatus(status); err != nil {
		return err
	}

	resp, err := c.service.ChangeStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}

	c.io.Println("✓ Status changed!")
	c.io.Printf("ID:     %s\n", resp.Record.ID)
	c.io.Printf("Status: %s\n", resp.Record.Status)

	return nil
}
