package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/app"
)

var (
	statsViews int
	statsSales int
	statsDate  string
)

var statsCmd = &cobra.Command{
	Use:   "stats <product-id>",
	Short: "Record product views and sales towards trending stats",
	Args:  cobra.ExactArgs(1),
	RunE:  recordStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsViews, "views", 0, "Views to add")
	statsCmd.Flags().IntVar(&statsSales, "sales", 0, "Units sold to add")
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Stat day (YYYY-MM-DD), defaults to today")
}

func recordStats(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if statsViews < 0 || statsSales < 0 {
		return fmt.Errorf("--views and --sales must not be negative")
	}
	if statsViews == 0 && statsSales == 0 {
		return fmt.Errorf("nothing to record: pass --views or --sales")
	}
	day := time.Now().UTC()
	if d, err := parseTime(statsDate); err != nil {
		return err
	} else if d != nil {
		day = *d
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		tx, err := a.Store.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		for i := 0; i < statsViews; i++ {
			if err := a.Promotions.RecordProductView(ctx, id, day, tx); err != nil {
				return err
			}
		}
		if statsSales > 0 {
			if err := a.Promotions.RecordProductSale(ctx, id, statsSales, day, tx); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit stats: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d views and %d sales for product %d on %s\n",
			statsViews, statsSales, id, day.Format(time.DateOnly))
		return nil
	})
}
