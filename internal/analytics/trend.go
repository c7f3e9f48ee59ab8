package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func moneyTrend(prev, cur decimal.Decimal) string {
	return trend(prev, cur, formatMoney)
}

func countTrend(prev, cur int) string {
	return trend(decimal.NewFromInt(int64(prev)), decimal.NewFromInt(int64(cur)), formatCount)
}

// trend renders "+12.5% (+$25.00)". A zero previous value has no percentage.
func trend(prev, cur decimal.Decimal, format func(decimal.Decimal) string) string {
	delta := cur.Sub(prev)
	if prev.IsZero() {
		if cur.IsZero() {
			return "No change"
		}
		return fmt.Sprintf("No prior data (%s)", format(delta))
	}
	pct := delta.Div(prev.Abs()).Mul(hundred)
	return fmt.Sprintf("%s%s%% (%s)", sign(pct), pct.Abs().StringFixed(1), format(delta))
}

// percentChange is the numeric change rounded to one decimal, 0 without a base.
func percentChange(prev, cur decimal.Decimal) float64 {
	if prev.IsZero() {
		return 0
	}
	return cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(1).InexactFloat64()
}

func formatMoney(d decimal.Decimal) string {
	return sign(d) + "$" + d.Abs().StringFixed(2)
}

func formatCount(d decimal.Decimal) string {
	return sign(d) + d.Abs().StringFixed(0)
}

func sign(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}
