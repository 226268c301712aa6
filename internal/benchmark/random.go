// Package benchmark provides reference trade logics for exercising the
// engine on generated data.
package benchmark

import (
	"fmt"
	"math/rand"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/trade"
)

// RandomTrader produces NTrades seeded random trades: each picks up to
// MaxLegs distinct assets with lots in (-MaxLot, MaxLot) and a random
// open/shut window. The same seed always yields the same trades.
type RandomTrader struct {
	NTrades int
	MaxLegs int     // defaults to 1
	MaxLot  float64 // defaults to 1.0
	Seed    int64
}

// Name implements the strategy Logic interface.
func (rt RandomTrader) Name() string { return "random_trader" }

// Trades implements the strategy Logic interface.
func (rt RandomTrader) Trades(u *market.Universe) ([]*trade.Trade, error) {
	if rt.NTrades <= 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("random trader needs a positive trade count, got %d", rt.NTrades))
	}
	maxLegs := rt.MaxLegs
	if maxLegs <= 0 {
		maxLegs = 1
	}
	if maxLegs > u.NumAssets() {
		maxLegs = u.NumAssets()
	}
	maxLot := rt.MaxLot
	if maxLot <= 0 {
		maxLot = 1.0
	}

	rng := rand.New(rand.NewSource(rt.Seed))
	bars := u.Bars()
	assets := u.Assets()

	trades := make([]*trade.Trade, 0, rt.NTrades)
	for i := 0; i < rt.NTrades; i++ {
		nLegs := 1 + rng.Intn(maxLegs)
		perm := rng.Perm(len(assets))[:nLegs]

		legs := make([]string, nLegs)
		lots := make([]float64, nLegs)
		for k, j := range perm {
			legs[k] = assets[j]
			lots[k] = (2*rng.Float64() - 1) * maxLot
		}

		openIdx := rng.Intn(len(bars))
		shutIdx := openIdx + rng.Intn(len(bars)-openIdx)

		t, err := trade.New(trade.Spec{
			Assets:  legs,
			Lots:    lots,
			OpenBar: bars[openIdx],
			ShutBar: bars[shutIdx],
		})
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}
