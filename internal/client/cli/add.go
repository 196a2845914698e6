package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/liveview/internal/validation"
	"github.com/iudanet/liveview/pkg/api"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	status := fs.String("status", "", "initial status (default: pending)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid add arguments: %w", err)
	}

	fields, err := parseFieldArgs(fs.Args())
	if err != nil {
		return fmt.Errorf("add: %w. Usage: liveview add [-status STATUS] field=value ...", err)
	}

	if *status != "" {
		if err := validation.ValidateStatus(*status); err != nil {
			return err
		}
	}

	resp, err := c.service.CreateRecord(ctx, api.CreateRecordRequest{
		Fields: fields,
		Status: *status,
	})
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	c.io.Println("✓ Record created!")
	c.io.Printf("ID:     %s\n", resp.Record.ID)
	c.io.Printf("Status: %s\n", resp.Record.Status)
	c.io.Printf("Fields: %s\n", fieldsLine(resp.Record.Fields))

	return nil
}
