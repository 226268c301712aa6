// Package pipe aggregates executed trades into strategy-level matrices and
// series. Row and column orderings are stable: trade rows follow the given
// trade order, asset columns and bar rows follow the universe.
package pipe

import (
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/trade"
)

// legs is the sparse (asset column, lot) view of one trade.
type legs struct {
	cols []int
	lots []float64
}

func resolveLegs(t *trade.Trade, u *market.Universe) (legs, error) {
	cols := make([]int, len(t.Assets))
	for i, asset := range t.Assets {
		col, err := u.AssetIndex(asset)
		if err != nil {
			return legs{}, err
		}
		cols[i] = col
	}
	return legs{cols: cols, lots: t.Lots}, nil
}

// LotMatrix builds the trades x assets lot matrix. Cell (t, a) is the sum of
// lots over all legs of trade t holding asset a; duplicate legs on one asset
// accumulate. Independent of bars and of execution state.
func LotMatrix(trades []*trade.Trade, u *market.Universe) ([][]float64, error) {
	m := make([][]float64, len(trades))
	for ti, t := range trades {
		row := make([]float64, u.NumAssets())
		lg, err := resolveLegs(t, u)
		if err != nil {
			return nil, err
		}
		for i, col := range lg.cols {
			row[col] += lg.lots[i]
		}
		m[ti] = row
	}
	return m, nil
}

// ValueMatrix builds the bars x assets net exposure matrix. Each executed
// trade scatters lot * price into its asset columns for every bar of its
// open window (open bar through close bar inclusive); trades without a close
// bar contribute nothing.
func ValueMatrix(trades []*trade.Trade, u *market.Universe) ([][]float64, error) {
	m := make([][]float64, u.NumBars())
	for bar := range m {
		m[bar] = make([]float64, u.NumAssets())
	}

	for _, t := range trades {
		if !t.Executed() {
			continue
		}
		openIdx, closeIdx, err := windowIndices(t, u)
		if err != nil {
			return nil, err
		}
		lg, err := resolveLegs(t, u)
		if err != nil {
			return nil, err
		}
		for bar := openIdx; bar <= closeIdx; bar++ {
			for i, col := range lg.cols {
				m[bar][col] += lg.lots[i] * u.PriceAt(bar, col)
			}
		}
	}
	return m, nil
}

func windowIndices(t *trade.Trade, u *market.Universe) (openIdx, closeIdx int, err error) {
	openIdx, err = u.BarIndex(t.OpenBar)
	if err != nil {
		return 0, 0, err
	}
	closeBar, err := t.CloseBar()
	if err != nil {
		return 0, 0, err
	}
	closeIdx, err = u.BarIndex(closeBar)
	if err != nil {
		return 0, 0, err
	}
	return openIdx, closeIdx, nil
}
