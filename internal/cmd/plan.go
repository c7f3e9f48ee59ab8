package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/app"
	"merchandising-engine/internal/promotion"
)

var planFile string

var planCmd = &cobra.Command{
	Use:   "plan <product-id>",
	Short: "Apply a JSON promotion plan to a product in one transaction",
	Long: `Apply a promotion plan read from --file (or stdin with "-").

Example plan:
  {
    "featured":   {"is_featured": true, "position": 1},
    "daily_deal": {"deal_price": "19.99", "date": "2026-03-10T00:00:00Z"},
    "clear_flash_sales": true
  }`,
	Args: cobra.ExactArgs(1),
	RunE: applyPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVarP(&planFile, "file", "f", "-", "Plan file, - for stdin")
}

func readPlan(r io.Reader) (promotion.PromotionPlan, error) {
	var plan promotion.PromotionPlan
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&plan); err != nil {
		return plan, fmt.Errorf("invalid plan: %w", err)
	}
	return plan, nil
}

func applyPlan(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if planFile != "-" {
		f, err := os.Open(planFile)
		if err != nil {
			return fmt.Errorf("failed to open plan: %w", err)
		}
		defer f.Close()
		in = f
	}
	plan, err := readPlan(in)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Promotions.ApplyPlan(ctx, id, plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Promotion plan applied to product %d\n", id)
		return nil
	})
}
