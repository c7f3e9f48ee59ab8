package analytics

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// ExportTopProducts writes the ranking as a single-sheet workbook.
func ExportTopProducts(w io.Writer, products []TopProduct) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Top Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"Rank", "Product ID", "Name", "Category", "Price", "Units Sold", "Revenue"} {
		headerRow.AddCell().SetValue(h)
	}

	for i, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(i + 1)
		row.AddCell().SetValue(p.ProductID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.InexactFloat64())
		row.AddCell().SetValue(p.UnitsSold)
		row.AddCell().SetValue(p.Revenue.InexactFloat64())
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportSeries writes one row per bucket with a column per series.
func ExportSeries(w io.Writer, ts *TimeSeries) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Revenue and Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().SetValue(string(ts.Granularity))
	for _, s := range ts.Series {
		headerRow.AddCell().SetValue(s.Name)
	}

	for i, label := range ts.Labels {
		row := sheet.AddRow()
		row.AddCell().SetValue(label)
		for _, s := range ts.Series {
			var v float64
			if i < len(s.Data) {
				v = s.Data[i]
			}
			row.AddCell().SetValue(v)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
