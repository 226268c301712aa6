package report

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Strategy: %s | Universe: %d bars x %d assets\n\n", r.Strategy, r.Bars, r.Assets))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Stats.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Winning Trades | %d |\n", r.Stats.WinningTrades))
	sb.WriteString(fmt.Sprintf("| Losing Trades | %d |\n", r.Stats.LosingTrades))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.Stats.WinRate))
	sb.WriteString(fmt.Sprintf("| Total P&L | %.4f |\n", r.Stats.TotalPnL))
	sb.WriteString(fmt.Sprintf("| Avg P&L per Trade | %.4f |\n", r.Stats.AvgPnL))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.Stats.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.Stats.SharpeRatio))
	sb.WriteString("\n")

	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| # | Assets | Lots | Open | Close | Reason | P&L |\n")
		sb.WriteString("|---|--------|------|------|-------|--------|-----|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %.4f |\n",
				t.Index, t.Assets, t.Lots, t.OpenBar, t.CloseBar, t.Reason, t.PnL))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
