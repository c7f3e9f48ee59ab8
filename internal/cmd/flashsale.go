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
	flashSaleID       int64
	flashSalePrice    string
	flashSalePriority int
	flashSaleStart    string
	flashSaleEnd      string
	flashSaleName     string
)

var flashSaleCmd = &cobra.Command{
	Use:   "flashsale",
	Short: "Manage flash sale items",
}

var flashSaleAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add or update a product in a flash sale",
	Long: `Add or update a product in a flash sale.

The sale is resolved in order: --sale-id when given, a sale with exactly the
--start/--end window (created when missing), otherwise today's running sale.`,
	Args: cobra.ExactArgs(1),
	RunE: addFlashSaleItem,
}

var flashSaleRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from every flash sale",
	Args:  cobra.ExactArgs(1),
	RunE:  removeFlashSaleItems,
}

var flashSaleSyncCmd = &cobra.Command{
	Use:   "sync <product-id>",
	Short: "Recompute a product's flash sale fields from its best remaining item",
	Args:  cobra.ExactArgs(1),
	RunE:  syncFlashSale,
}

func init() {
	rootCmd.AddCommand(flashSaleCmd)
	flashSaleCmd.AddCommand(flashSaleAddCmd, flashSaleRemoveCmd, flashSaleSyncCmd)

	flashSaleAddCmd.Flags().Int64Var(&flashSaleID, "sale-id", 0, "Existing flash sale ID")
	flashSaleAddCmd.Flags().StringVar(&flashSalePrice, "price", "", "Sale price (required)")
	flashSaleAddCmd.Flags().IntVar(&flashSalePriority, "priority", 0, "Ordering inside the sale (lower first)")
	flashSaleAddCmd.Flags().StringVar(&flashSaleStart, "start", "", "Sale window start (RFC3339)")
	flashSaleAddCmd.Flags().StringVar(&flashSaleEnd, "end", "", "Sale window end (RFC3339)")
	flashSaleAddCmd.Flags().StringVar(&flashSaleName, "name", "", "Name for a newly created sale")
	_ = flashSaleAddCmd.MarkFlagRequired("price")
}

func addFlashSaleItem(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(flashSalePrice)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", flashSalePrice, err)
	}

	in := promotion.FlashSaleItemInput{
		ProductID: id,
		SalePrice: price,
		Priority:  flashSalePriority,
		SaleName:  flashSaleName,
	}
	if flashSaleID > 0 {
		saleID := flashSaleID
		in.FlashSaleID = &saleID
	}
	if in.SaleStart, err = parseTime(flashSaleStart); err != nil {
		return err
	}
	if in.SaleEnd, err = parseTime(flashSaleEnd); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		item, err := a.Promotions.AddOrUpdateFlashSaleItem(ctx, in, nil)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), item)
	})
}

func removeFlashSaleItems(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.RemoveProductFromAnyFlashSale(ctx, id, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product %d removed from flash sales\n", id)
		return nil
	})
}

func syncFlashSale(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.SyncFlashSaleFields(ctx, id, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Flash sale fields synced for product %d\n", id)
		return nil
	})
}
