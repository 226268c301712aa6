package pipe

import (
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/trade"
)

// SeriesExposure reduces the value matrix to one number per bar. With
// net=true cells are summed signed; with net=false their absolute values are
// summed, giving the gross exposure after per-asset netting across trades.
func SeriesExposure(trades []*trade.Trade, u *market.Universe, net bool) ([]float64, error) {
	m, err := ValueMatrix(trades, u)
	if err != nil {
		return nil, err
	}

	series := make([]float64, u.NumBars())
	for bar, row := range m {
		var v float64
		for _, cell := range row {
			if !net && cell < 0 {
				cell = -cell
			}
			v += cell
		}
		series[bar] = v
	}
	return series, nil
}

// SeriesPnL returns the strategy's cumulative net P&L per bar: the sum over
// trades of each trade's exposure delta from its open bar, clamped to its
// open window. After a trade closes its realized P&L is carried flat, so the
// final value equals FinalPnL.
func SeriesPnL(trades []*trade.Trade, u *market.Universe) ([]float64, error) {
	series := make([]float64, u.NumBars())

	for _, t := range trades {
		pnl, err := t.SeriesPnL(u)
		if err != nil {
			return nil, err
		}
		openIdx, closeIdx, err := windowIndices(t, u)
		if err != nil {
			return nil, err
		}
		for bar := openIdx; bar <= closeIdx; bar++ {
			series[bar] += pnl[bar-openIdx]
		}
		// realized result persists after the close bar
		final := pnl[len(pnl)-1]
		for bar := closeIdx + 1; bar < len(series); bar++ {
			series[bar] += final
		}
	}
	return series, nil
}

// FinalPnL sums the realized P&L over all trades.
func FinalPnL(trades []*trade.Trade, u *market.Universe) (float64, error) {
	var total float64
	for _, t := range trades {
		pnl, err := t.FinalPnL(u)
		if err != nil {
			return 0, err
		}
		total += pnl
	}
	return total, nil
}
