package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

// serviceFactory opens a loaded service for one command run.
type serviceFactory func(ctx context.Context) (*core.Service, error)

type app struct {
	open serviceFactory
}

// newRootCmd builds the command tree over open.
func newRootCmd(open serviceFactory) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "orderctl",
		Short: "Inspect and maintain the order list",
		Long: `orderctl works on the same storage slot as the dashboard server.

Available commands:
  list   - Show one page of orders for the given criteria
  kpi    - Show the KPI figures for the given criteria
  export - Write the filtered orders as CSV
  import - Prepend orders from a CSV file
  share  - Print the shareable link for the given criteria
  reset  - Replace every order with the sample data`,
		SilenceUsage: true,
	}

	root.AddCommand(
		a.listCmd(),
		a.kpiCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.shareCmd(),
		a.resetCmd(),
	)
	return root
}

// withService opens the service around fn and closes it afterwards.
func (a *app) withService(fn func(cmd *cobra.Command, svc *core.Service, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
			cmd.SetContext(ctx)
		}
		svc, err := a.open(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				slog.Warn("failed to close service", "error", err)
			}
		}()
		return fn(cmd, svc, args)
	}
}
