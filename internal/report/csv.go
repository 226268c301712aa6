package report

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderCSV renders per-trade results as CSV string.
func RenderCSV(rows []TradeRow) string {
	var sb strings.Builder

	sb.WriteString("trade,assets,lots,open_bar,close_bar,close_reason,final_pnl\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%s,%s,%.6f\n",
			r.Index,
			r.Assets,
			r.Lots,
			r.OpenBar,
			r.CloseBar,
			r.Reason,
			r.PnL,
		))
	}

	return sb.String()
}

// RenderSeriesCSV renders one or more bar-indexed series side by side.
// Series must all have one value per bar.
func RenderSeriesCSV(bars []string, names []string, series [][]float64) string {
	var sb strings.Builder

	sb.WriteString("bar")
	for _, n := range names {
		sb.WriteString(",")
		sb.WriteString(n)
	}
	sb.WriteString("\n")

	for i, bar := range bars {
		sb.WriteString(bar)
		for _, s := range series {
			sb.WriteString(",")
			sb.WriteString(strconv.FormatFloat(s[i], 'f', -1, 64))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, "+")
}
