// Package strategy composes a universe, a trade-producing logic and the
// execution/aggregation engines into a runnable backtest.
package strategy

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/metrics"
	"github.com/shishaboy/epymetheus/internal/pipe"
	"github.com/shishaboy/epymetheus/internal/trade"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Logic produces the ordered trades a strategy wants to hold over a
// universe. Implementations are external to the engine.
type Logic interface {
	Name() string
	Trades(u *market.Universe) ([]*trade.Trade, error)
}

// LogicFunc adapts a plain function to the Logic interface.
type LogicFunc struct {
	LogicName string
	Fn        func(u *market.Universe) ([]*trade.Trade, error)
}

func (l LogicFunc) Name() string { return l.LogicName }

func (l LogicFunc) Trades(u *market.Universe) ([]*trade.Trade, error) { return l.Fn(u) }

// Strategy holds a universe and the trades produced by its logic. Run
// populates both; the aggregate accessors delegate to the pipe engine.
type Strategy struct {
	logic   Logic
	logger  *zap.Logger
	metrics *metrics.Registry

	universe *market.Universe
	trades   []*trade.Trade
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithLogger attaches a zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Strategy) { s.logger = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Strategy) { s.metrics = m }
}

// New creates a strategy around the given logic.
func New(logic Logic, opts ...Option) *Strategy {
	s := &Strategy{
		logic:  logic,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the logic's name.
func (s *Strategy) Name() string { return s.logic.Name() }

// Run asks the logic for trades and executes them against the universe.
// Trades are independent, so execution fans out across goroutines bounded by
// GOMAXPROCS. The first failure aborts the run.
func (s *Strategy) Run(ctx context.Context, u *market.Universe) error {
	start := time.Now()

	trades, err := s.logic.Trades(u)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return core.WrapError(core.ErrNoData, fmt.Errorf("logic %s produced no trades", s.logic.Name()))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, t := range trades {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			closeBar, err := t.Execute(u)
			if err != nil {
				return err
			}
			s.logger.Debug("trade executed",
				zap.String("trade", t.ID()),
				zap.String("open_bar", t.OpenBar),
				zap.String("close_bar", closeBar),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.universe = u
	s.trades = trades

	if s.metrics != nil {
		s.metrics.SetUniverseSize(u.NumBars(), u.NumAssets())
		s.metrics.ObserveRun(time.Since(start))
		for _, t := range trades {
			reason, err := t.CloseReason()
			if err != nil {
				return err
			}
			s.metrics.TradeExecuted(s.Name(), string(reason))
		}
		if pnl, err := pipe.FinalPnL(trades, u); err == nil {
			s.metrics.SetFinalPnL(s.Name(), pnl)
		}
	}

	s.logger.Info("backtest run complete",
		zap.String("strategy", s.Name()),
		zap.Int("trades", len(trades)),
		zap.Int("bars", u.NumBars()),
		zap.Int("assets", u.NumAssets()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (s *Strategy) ensureRun() error {
	if s.universe == nil {
		return core.WrapError(core.ErrUnexecutedTrade, fmt.Errorf("strategy %s has not been run", s.Name()))
	}
	return nil
}

// Universe returns the universe of the last run.
func (s *Strategy) Universe() *market.Universe { return s.universe }

// Trades returns the executed trades of the last run, in declaration order.
func (s *Strategy) Trades() []*trade.Trade { return s.trades }

// LotMatrix returns the trades x assets lot matrix.
func (s *Strategy) LotMatrix() ([][]float64, error) {
	if err := s.ensureRun(); err != nil {
		return nil, err
	}
	return pipe.LotMatrix(s.trades, s.universe)
}

// ValueMatrix returns the bars x assets net exposure matrix.
func (s *Strategy) ValueMatrix() ([][]float64, error) {
	if err := s.ensureRun(); err != nil {
		return nil, err
	}
	return pipe.ValueMatrix(s.trades, s.universe)
}

// SeriesExposure returns the per-bar aggregate exposure, signed (net) or as
// summed absolute per-asset values (gross).
func (s *Strategy) SeriesExposure(net bool) ([]float64, error) {
	if err := s.ensureRun(); err != nil {
		return nil, err
	}
	return pipe.SeriesExposure(s.trades, s.universe, net)
}

// SeriesPnL returns the per-bar cumulative net P&L curve.
func (s *Strategy) SeriesPnL() ([]float64, error) {
	if err := s.ensureRun(); err != nil {
		return nil, err
	}
	return pipe.SeriesPnL(s.trades, s.universe)
}

// FinalPnL returns the realized net P&L summed over all trades.
func (s *Strategy) FinalPnL() (float64, error) {
	if err := s.ensureRun(); err != nil {
		return 0, err
	}
	return pipe.FinalPnL(s.trades, s.universe)
}
