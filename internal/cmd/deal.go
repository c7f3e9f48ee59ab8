package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"merchandising-engine/internal/app"
	"merchandising-engine/internal/promotion"
)

var (
	dealPrice    string
	dealDate     string
	dealPriority int
	dealStart    string
	dealEnd      string
)

var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Manage daily deals",
}

var dealSetCmd = &cobra.Command{
	Use:   "set <product-id>",
	Short: "Schedule or update a product's deal for a day (today by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  setDailyDeal,
}

var dealRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product's deal for a day (today by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  removeDailyDeal,
}

func init() {
	rootCmd.AddCommand(dealCmd)
	dealCmd.AddCommand(dealSetCmd, dealRemoveCmd)

	dealSetCmd.Flags().StringVar(&dealPrice, "price", "", "Deal price; empty keeps the product at list price")
	dealSetCmd.Flags().StringVar(&dealDate, "date", "", "Deal day (YYYY-MM-DD)")
	dealSetCmd.Flags().IntVar(&dealPriority, "priority", 0, "Ordering among the day's deals (lower first)")
	dealSetCmd.Flags().StringVar(&dealStart, "start", "", "Deal start (RFC3339), defaults to start of day")
	dealSetCmd.Flags().StringVar(&dealEnd, "end", "", "Deal end (RFC3339), defaults to end of day")

	dealRemoveCmd.Flags().StringVar(&dealDate, "date", "", "Deal day (YYYY-MM-DD)")
}

func setDailyDeal(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	in := promotion.DailyDealInput{ProductID: id, Priority: dealPriority}
	if dealPrice != "" {
		price, err := decimal.NewFromString(dealPrice)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", dealPrice, err)
		}
		in.DealPrice = &price
	}
	if in.Date, err = parseTime(dealDate); err != nil {
		return err
	}
	if in.StartAt, err = parseTime(dealStart); err != nil {
		return err
	}
	if in.EndAt, err = parseTime(dealEnd); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		deal, err := a.Promotions.SetDailyDeal(ctx, in, nil)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), deal)
	})
}

func removeDailyDeal(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	date, err := parseTime(dealDate)
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.RemoveDailyDeal(ctx, id, date, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Daily deal removed for product %d\n", id)
		return nil
	})
}
