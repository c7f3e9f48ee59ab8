package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/app"
	"merchandising-engine/internal/promotion"
)

var (
	featuredPosition int
	featuredStart    string
	featuredEnd      string
)

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Manage featured products",
}

var featuredSetCmd = &cobra.Command{
	Use:   "set <product-id>",
	Short: "Feature a product at a position, optionally within a date window",
	Args:  cobra.ExactArgs(1),
	RunE:  setFeatured,
}

var featuredRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Stop featuring a product",
	Args:  cobra.ExactArgs(1),
	RunE:  removeFeatured,
}

func init() {
	rootCmd.AddCommand(featuredCmd)
	featuredCmd.AddCommand(featuredSetCmd, featuredRemoveCmd)

	featuredSetCmd.Flags().IntVar(&featuredPosition, "position", 0, "Display position (lower first)")
	featuredSetCmd.Flags().StringVar(&featuredStart, "start", "", "Window start (YYYY-MM-DD or RFC3339)")
	featuredSetCmd.Flags().StringVar(&featuredEnd, "end", "", "Window end (YYYY-MM-DD or RFC3339)")
}

func setFeatured(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	start, err := parseTime(featuredStart)
	if err != nil {
		return err
	}
	end, err := parseTime(featuredEnd)
	if err != nil {
		return err
	}

	in := promotion.FeaturedInput{
		ProductID:  id,
		IsFeatured: true,
		Position:   featuredPosition,
		StartDate:  start,
		EndDate:    end,
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.SetFeatured(ctx, in, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product %d featured at position %d\n", id, featuredPosition)
		return nil
	})
}

func removeFeatured(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.RemoveFeatured(ctx, id, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product %d is no longer featured\n", id)
		return nil
	})
}
