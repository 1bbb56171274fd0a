package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

func (a *app) listCmd() *cobra.Command {
	var (
		flags  criteriaFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of orders",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, _ []string) error {
			c, err := flags.criteria(cmd, svc.DefaultCriteria())
			if err != nil {
				return err
			}
			view := svc.View(c)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view.Result.Rows)
			}
			return printTable(cmd.OutOrStdout(), svc, view)
		}),
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}

// printTable writes the visible columns of the current page.
func printTable(w io.Writer, svc *core.Service, view core.DashboardView) error {
	cols := view.Criteria.Columns.VisibleOrdered()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Label())
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, o := range view.Result.Rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellText(o, c, svc)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	res := view.Result
	_, err := fmt.Fprintf(w, "page %d of %d (%d orders)\n", res.Page, res.TotalPages, res.Total)
	return err
}

func cellText(o core.Order, c core.Column, svc *core.Service) string {
	switch c {
	case core.ColID:
		return o.ID
	case core.ColClient:
		return o.Client
	case core.ColWarehouse:
		return o.Warehouse
	case core.ColCreatedAt:
		return o.CreatedAt.In(svc.Location()).Format(svc.Layout())
	case core.ColETA:
		return o.ETA.In(svc.Location()).Format(svc.Layout())
	case core.ColItems:
		return strconv.Itoa(o.Items)
	case core.ColStatus:
		return string(o.Status)
	case core.ColProgress:
		return strconv.Itoa(o.Progress()) + "%"
	}
	return ""
}

func (a *app) kpiCmd() *cobra.Command {
	var (
		flags  criteriaFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Show KPI figures for the filtered orders",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, _ []string) error {
			c, err := flags.criteria(cmd, svc.DefaultCriteria())
			if err != nil {
				return err
			}
			k := svc.View(c).KPIs
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), k)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"Total:         %d\nIn progress:   %d\nShipped today: %d\nSLA:           %d%%\n",
				k.Total, k.InProgress, k.ShippedToday, k.SLA)
			return err
		}),
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the figures as JSON")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		flags criteriaFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered orders (every page) as CSV",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, _ []string) error {
			c, err := flags.criteria(cmd, svc.DefaultCriteria())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return svc.Export(cmd.OutOrStdout(), c)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := svc.Export(f, c); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" or empty for stdout)`)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Prepend orders from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := svc.Import(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d orders\n", n)
			return err
		}),
	}
}

func (a *app) shareCmd() *cobra.Command {
	var (
		flags criteriaFlags
		base  string
	)
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print the shareable link for the given criteria",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, _ []string) error {
			c, err := flags.criteria(cmd, svc.DefaultCriteria())
			if err != nil {
				return err
			}
			link := svc.ShareURL(c)
			if cmd.Flags().Changed("base") {
				link = core.ShareURLFrom(base, c, svc.DefaultCriteria())
			}
			if link == "" {
				link = "/"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&base, "base", "", "dashboard URL to prefix (defaults to SERVER_BASE_URL), e.g. https://orders.example.com/")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace every order with the sample data",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, svc *core.Service, _ []string) error {
			if !yes {
				return errors.New("reset replaces every order; pass --yes to confirm")
			}
			if err := svc.ResetToSeed(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "reset to %d sample orders\n", len(svc.Orders()))
			return err
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
