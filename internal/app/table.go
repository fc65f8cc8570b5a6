// Where: internal/app/table.go
// What: `amis table create` command.
// Why: Provision the records table for local stacks and new accounts.
package app

import (
	"io"
	"time"

	"github.com/poruru/ami-catalog/internal/store"
)

// TableCmd groups table subcommands.
type TableCmd struct {
	Create TableCreateCmd `cmd:"" help:"Create the records table if it does not exist"`
}

type TableCreateCmd struct {
	Read          int64         `default:"5" help:"Provisioned read capacity units"`
	Write         int64         `default:"5" help:"Provisioned write capacity units"`
	PayPerRequest bool          `name:"pay-per-request" help:"Use on-demand billing"`
	Wait          time.Duration `default:"2m" help:"How long to wait for the table to become active"`
}

func runTableCreate(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Table.Create
	settings, err := prepare(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := settings.RequireTable(); err != nil {
		return exitWithError(out, err)
	}
	svc, err := deps.services(settings)
	if err != nil {
		return exitWithError(out, err)
	}

	spec := store.DefaultTableSpec(settings.Table)
	spec.ReadCapacityUnits = cmd.Read
	spec.WriteCapacityUnits = cmd.Write
	spec.Wait = cmd.Wait
	if cmd.PayPerRequest {
		spec.BillingMode = "PAY_PER_REQUEST"
	}
	if _, err := store.EnsureTable(deps.Context, svc.Tables, spec, out); err != nil {
		return exitWithError(out, err)
	}
	return 0
}
