package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/app"
)

var (
	listLimit int
	listDate  string
	listDays  int
)

var listCmd = &cobra.Command{
	Use:       "list <flash-sales|daily-deals|trending|new-arrivals|featured>",
	Short:     "Print a storefront listing as JSON",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"flash-sales", "daily-deals", "trending", "new-arrivals", "featured"},
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Max items (listing default when 0)")
	listCmd.Flags().StringVar(&listDate, "date", "", "Reference day or time (YYYY-MM-DD or RFC3339), defaults to now")
	listCmd.Flags().IntVar(&listDays, "days", 7, "Look-back window in days for trending and new-arrivals")
}

func runList(cmd *cobra.Command, args []string) error {
	ref, err := parseTime(listDate)
	if err != nil {
		return err
	}
	at := time.Now().UTC()
	if ref != nil {
		at = *ref
	}
	window := time.Duration(listDays) * 24 * time.Hour

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		var (
			out any
			err error
		)
		switch strings.ToLower(args[0]) {
		case "flash-sales":
			out, err = a.Promotions.FlashSales(ctx, ref, listLimit)
		case "daily-deals":
			out, err = a.Promotions.DailyDeals(ctx, at, listLimit)
		case "trending":
			out, err = a.Promotions.Trending(ctx, at.Add(-window), at, listLimit)
		case "new-arrivals":
			out, err = a.Promotions.NewArrivals(ctx, window, listLimit)
		case "featured":
			out, err = a.Promotions.FeaturedProducts(ctx, listLimit)
		default:
			return fmt.Errorf("unknown listing %q", args[0])
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	})
}
