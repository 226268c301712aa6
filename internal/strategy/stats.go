package strategy

import (
	"math"

	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/pipe"
	"github.com/shishaboy/epymetheus/internal/trade"
)

// Stats holds performance statistics for a completed run.
type Stats struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // Percentage of profitable trades
	TotalPnL      float64 // Realized net P&L summed over trades
	AvgPnL        float64 // Mean realized P&L per trade
	MaxDrawdown   float64 // Largest peak-to-trough decline of the P&L curve
	SharpeRatio   float64 // Risk-adjusted per-bar P&L (annualized)
}

// Stats computes performance statistics from the last run.
func (s *Strategy) Stats() (Stats, error) {
	if err := s.ensureRun(); err != nil {
		return Stats{}, err
	}
	return CalculateStats(s.trades, s.universe)
}

// CalculateStats computes performance statistics over executed trades.
func CalculateStats(trades []*trade.Trade, u *market.Universe) (Stats, error) {
	if len(trades) == 0 {
		return Stats{}, nil
	}

	var winning, losing int
	var total float64
	for _, t := range trades {
		pnl, err := t.FinalPnL(u)
		if err != nil {
			return Stats{}, err
		}
		total += pnl
		if pnl > 0 {
			winning++
		} else if pnl < 0 {
			losing++
		}
	}

	var winRate float64
	if closed := winning + losing; closed > 0 {
		winRate = float64(winning) / float64(closed) * 100
	}

	curve, err := pipe.SeriesPnL(trades, u)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalTrades:   len(trades),
		WinningTrades: winning,
		LosingTrades:  losing,
		WinRate:       winRate,
		TotalPnL:      total,
		AvgPnL:        total / float64(len(trades)),
		MaxDrawdown:   calculateMaxDrawdown(curve),
		SharpeRatio:   calculateSharpeRatio(curve),
	}, nil
}

// calculateMaxDrawdown finds the largest peak-to-trough decline of the
// cumulative P&L curve, in P&L units.
func calculateMaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}

	var maxDD float64
	peak := curve[0]
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if dd := peak - v; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// calculateSharpeRatio computes risk-adjusted return over the per-bar
// increments of the P&L curve. Assumes a risk-free rate of 0.
func calculateSharpeRatio(curve []float64) float64 {
	if len(curve) < 3 {
		return 0
	}

	increments := make([]float64, len(curve)-1)
	var sum float64
	for i := 1; i < len(curve); i++ {
		increments[i-1] = curve[i] - curve[i-1]
		sum += increments[i-1]
	}
	mean := sum / float64(len(increments))

	var variance float64
	for _, r := range increments {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(increments)-1))

	if stdDev == 0 {
		return 0
	}

	// Annualize (assuming ~252 trading bars)
	return (mean * 252) / (stdDev * math.Sqrt(252))
}
