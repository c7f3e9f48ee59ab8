package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/analytics"
	"merchandising-engine/internal/app"
)

var (
	reportStart  string
	reportEnd    string
	reportLimit  int
	reportTarget float64
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Order analytics reports",
	Long: `Order analytics over a date range (default: the last 30 days).

Reports print JSON; top-products and series can also be written to an
.xlsx workbook with --out.`,
}

var reportOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Order counts, revenue and trends against the previous period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, a *app.App, start, end time.Time) (any, error) {
			return a.Analytics.OrdersAnalytics(ctx, start, end)
		})
	},
}

var reportSeriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Revenue and orders time series",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, a *app.App, start, end time.Time) (any, error) {
			ts, err := a.Analytics.RevenueAndOrdersSeries(ctx, start, end)
			if err != nil {
				return nil, err
			}
			if reportOut != "" {
				return nil, writeWorkbook(reportOut, func(w io.Writer) error { return analytics.ExportSeries(w, ts) })
			}
			return ts, nil
		})
	},
}

var reportTopCustomersCmd = &cobra.Command{
	Use:   "top-customers",
	Short: "Customers ranked by delivered spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, a *app.App, start, end time.Time) (any, error) {
			return a.Analytics.TopCustomers(ctx, start, end, reportLimit)
		})
	},
}

var reportTopProductsCmd = &cobra.Command{
	Use:   "top-products",
	Short: "Products ranked by delivered revenue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, a *app.App, start, end time.Time) (any, error) {
			rows, err := a.Analytics.TopProducts(ctx, start, end, reportLimit)
			if err != nil {
				return nil, err
			}
			if reportOut != "" {
				return nil, writeWorkbook(reportOut, func(w io.Writer) error { return analytics.ExportTopProducts(w, rows) })
			}
			return rows, nil
		})
	},
}

var reportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Order counts per status (all history unless bounded)",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseTime(reportStart)
		if err != nil {
			return err
		}
		end, err := parseTime(reportEnd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			counts, err := a.Analytics.OrderStatusCounts(ctx, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		})
	},
}

var reportFulfillmentCmd = &cobra.Command{
	Use:   "fulfillment",
	Short: "Average order to delivery hours and share within target",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, a *app.App, start, end time.Time) (any, error) {
			return a.Analytics.FulfillmentMetrics(ctx, start, end, reportTarget)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportOrdersCmd, reportSeriesCmd, reportTopCustomersCmd, reportTopProductsCmd, reportStatusCmd, reportFulfillmentCmd)

	reportCmd.PersistentFlags().StringVar(&reportStart, "start", "", "Range start (YYYY-MM-DD)")
	reportCmd.PersistentFlags().StringVar(&reportEnd, "end", "", "Range end (YYYY-MM-DD)")
	reportTopCustomersCmd.Flags().IntVar(&reportLimit, "limit", 10, "Max rows")
	reportTopProductsCmd.Flags().IntVar(&reportLimit, "limit", 10, "Max rows")
	reportTopProductsCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write an .xlsx workbook instead of JSON")
	reportSeriesCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write an .xlsx workbook instead of JSON")
	reportFulfillmentCmd.Flags().Float64Var(&reportTarget, "target-hours", 48, "Delivery target in hours")
}

func reportRange() (time.Time, time.Time, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	if t, err := parseTime(reportStart); err != nil {
		return start, end, err
	} else if t != nil {
		start = *t
	}
	if t, err := parseTime(reportEnd); err != nil {
		return start, end, err
	} else if t != nil {
		end = *t
	}
	return start, end, nil
}

func runReport(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, start, end time.Time) (any, error)) error {
	start, end, err := reportRange()
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out, err := fn(ctx, a, start, end)
		if err != nil {
			return err
		}
		if out == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportOut)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), out)
	})
}

func writeWorkbook(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
