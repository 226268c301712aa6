// Package report renders backtest results for external consumers.
package report

import (
	"strings"
	"time"

	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/strategy"
	"github.com/shishaboy/epymetheus/internal/trade"
)

// TradeRow is one per-trade result line.
type TradeRow struct {
	Index    int
	Assets   string // legs joined with "+"
	Lots     string
	OpenBar  string
	CloseBar string
	Reason   string
	PnL      float64
}

// Report collects everything the renderers need from a completed run.
type Report struct {
	GeneratedAt time.Time
	Strategy    string
	Bars        int
	Assets      int
	Stats       strategy.Stats
	Trades      []TradeRow
}

// Build assembles a report from a completed strategy run.
func Build(s *strategy.Strategy) (*Report, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}

	u := s.Universe()
	rows, err := BuildRows(s.Trades(), u)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt: time.Now().UTC(),
		Strategy:    s.Name(),
		Bars:        u.NumBars(),
		Assets:      u.NumAssets(),
		Stats:       stats,
		Trades:      rows,
	}, nil
}

// BuildRows converts executed trades into result rows, in trade order.
func BuildRows(trades []*trade.Trade, u *market.Universe) ([]TradeRow, error) {
	rows := make([]TradeRow, 0, len(trades))
	for i, t := range trades {
		closeBar, err := t.CloseBar()
		if err != nil {
			return nil, err
		}
		reason, err := t.CloseReason()
		if err != nil {
			return nil, err
		}
		pnl, err := t.FinalPnL(u)
		if err != nil {
			return nil, err
		}

		rows = append(rows, TradeRow{
			Index:    i,
			Assets:   strings.Join(t.Assets, "+"),
			Lots:     joinFloats(t.Lots),
			OpenBar:  t.OpenBar,
			CloseBar: closeBar,
			Reason:   string(reason),
			PnL:      pnl,
		})
	}
	return rows, nil
}
