// Package market holds the price universe shared by all trades in a backtest.
package market

import (
	"fmt"

	"github.com/shishaboy/epymetheus/internal/core"
)

// Universe is an immutable bars x assets price table. Bar and asset labels
// keep their declared order; lookups by label resolve through index maps.
// It is safe to share read-only across goroutines.
type Universe struct {
	bars   []string
	assets []string
	prices [][]float64 // prices[barIdx][assetIdx]

	barIdx   map[string]int
	assetIdx map[string]int
}

// New builds a universe from ordered bar labels, ordered asset labels and a
// bars x assets price grid. Labels must be unique within their axis.
func New(bars, assets []string, prices [][]float64) (*Universe, error) {
	if len(bars) == 0 || len(assets) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("universe needs at least one bar and one asset, got %d bars x %d assets", len(bars), len(assets)))
	}
	if len(prices) != len(bars) {
		return nil, core.WrapError(core.ErrShapeMismatch,
			fmt.Errorf("price rows %d != bars %d", len(prices), len(bars)))
	}

	u := &Universe{
		bars:     make([]string, len(bars)),
		assets:   make([]string, len(assets)),
		prices:   make([][]float64, len(bars)),
		barIdx:   make(map[string]int, len(bars)),
		assetIdx: make(map[string]int, len(assets)),
	}
	copy(u.bars, bars)
	copy(u.assets, assets)

	for i, b := range bars {
		if _, dup := u.barIdx[b]; dup {
			return nil, core.WrapError(core.ErrShapeMismatch, fmt.Errorf("duplicate bar label %q", b))
		}
		u.barIdx[b] = i
	}
	for j, a := range assets {
		if _, dup := u.assetIdx[a]; dup {
			return nil, core.WrapError(core.ErrShapeMismatch, fmt.Errorf("duplicate asset label %q", a))
		}
		u.assetIdx[a] = j
	}

	for i, row := range prices {
		if len(row) != len(assets) {
			return nil, core.WrapError(core.ErrShapeMismatch,
				fmt.Errorf("price row %d has %d columns, want %d", i, len(row), len(assets)))
		}
		u.prices[i] = make([]float64, len(assets))
		copy(u.prices[i], row)
	}

	return u, nil
}

// Bars returns the ordered bar labels.
func (u *Universe) Bars() []string { return u.bars }

// Assets returns the ordered asset labels.
func (u *Universe) Assets() []string { return u.assets }

// NumBars returns the number of bars.
func (u *Universe) NumBars() int { return len(u.bars) }

// NumAssets returns the number of assets.
func (u *Universe) NumAssets() int { return len(u.assets) }

// LastBar returns the label of the final bar.
func (u *Universe) LastBar() string { return u.bars[len(u.bars)-1] }

// BarIndex resolves a bar label to its row index.
func (u *Universe) BarIndex(bar string) (int, error) {
	i, ok := u.barIdx[bar]
	if !ok {
		return 0, core.WrapError(core.ErrUnknownBar, fmt.Errorf("bar %q", bar))
	}
	return i, nil
}

// AssetIndex resolves an asset label to its column index.
func (u *Universe) AssetIndex(asset string) (int, error) {
	j, ok := u.assetIdx[asset]
	if !ok {
		return 0, core.WrapError(core.ErrUnknownAsset, fmt.Errorf("asset %q", asset))
	}
	return j, nil
}

// Price returns the price of asset at bar, by label.
func (u *Universe) Price(bar, asset string) (float64, error) {
	i, err := u.BarIndex(bar)
	if err != nil {
		return 0, err
	}
	j, err := u.AssetIndex(asset)
	if err != nil {
		return 0, err
	}
	return u.prices[i][j], nil
}

// PriceAt returns the price at raw indices. Callers must hold indices
// obtained from BarIndex/AssetIndex.
func (u *Universe) PriceAt(barIdx, assetIdx int) float64 {
	return u.prices[barIdx][assetIdx]
}
