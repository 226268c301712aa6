// Package dataset builds price universes from generated or tabular data.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
)

// RandomWalk generates an nBars x nAssets universe of geometric random-walk
// prices starting at 100. Bars are labelled "Bar0".. and assets "Asset0"..;
// the same seed always yields the same universe.
func RandomWalk(nBars, nAssets int, volatility float64, seed int64) (*market.Universe, error) {
	if nBars <= 0 || nAssets <= 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("random walk needs positive dimensions, got %d bars x %d assets", nBars, nAssets))
	}
	if volatility < 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("volatility must be non-negative, got %v", volatility))
	}

	rng := rand.New(rand.NewSource(seed))

	bars := make([]string, nBars)
	for i := range bars {
		bars[i] = fmt.Sprintf("Bar%d", i)
	}
	assets := make([]string, nAssets)
	for j := range assets {
		assets[j] = fmt.Sprintf("Asset%d", j)
	}

	last := make([]float64, nAssets)
	for j := range last {
		last[j] = 100.0
	}

	prices := make([][]float64, nBars)
	for i := range prices {
		row := make([]float64, nAssets)
		for j := range row {
			if i > 0 {
				step := 1 + volatility*rng.NormFloat64()
				if step < 0.01 {
					step = 0.01
				}
				last[j] *= step
			}
			row[j] = last[j]
		}
		prices[i] = row
	}

	return market.New(bars, assets, prices)
}
