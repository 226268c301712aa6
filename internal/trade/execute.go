package trade

import (
	"fmt"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
)

// legIndices resolves each leg's asset to its universe column.
func (t *Trade) legIndices(u *market.Universe) ([]int, error) {
	cols := make([]int, len(t.Assets))
	for i, asset := range t.Assets {
		col, err := u.AssetIndex(asset)
		if err != nil {
			return nil, core.WrapError(core.ErrUnknownAsset,
				fmt.Errorf("trade %s leg %d: asset %q", t.id, i, asset))
		}
		cols[i] = col
	}
	return cols, nil
}

// exposureAt is the signed sum of lot * price across legs at one bar.
func (t *Trade) exposureAt(u *market.Universe, cols []int, bar int) float64 {
	var v float64
	for i, col := range cols {
		v += t.Lots[i] * u.PriceAt(bar, col)
	}
	return v
}

// window resolves the scan window [open, shut]. An empty ShutBar means the
// universe's last bar.
func (t *Trade) window(u *market.Universe) (openIdx, shutIdx int, err error) {
	if t.OpenBar == "" {
		return 0, 0, core.WrapError(core.ErrUnknownBar, fmt.Errorf("trade %s: open bar not set", t.id))
	}
	openIdx, err = u.BarIndex(t.OpenBar)
	if err != nil {
		return 0, 0, core.WrapError(core.ErrUnknownBar, fmt.Errorf("trade %s: open bar %q", t.id, t.OpenBar))
	}
	if t.ShutBar == "" {
		return openIdx, u.NumBars() - 1, nil
	}
	shutIdx, err = u.BarIndex(t.ShutBar)
	if err != nil {
		return 0, 0, core.WrapError(core.ErrUnknownBar, fmt.Errorf("trade %s: shut bar %q", t.id, t.ShutBar))
	}
	if shutIdx < openIdx {
		return 0, 0, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trade %s: shut bar %q precedes open bar %q", t.id, t.ShutBar, t.OpenBar))
	}
	return openIdx, shutIdx, nil
}

// Execute scans forward from the open bar and assigns the close bar: the
// first bar whose net exposure delta from the open bar reaches Take (checked
// first) or Stop, falling back to the shut bar. The scan includes the open
// bar itself. Execute is idempotent; re-running overwrites the same result.
func (t *Trade) Execute(u *market.Universe) (string, error) {
	openIdx, shutIdx, err := t.window(u)
	if err != nil {
		return "", err
	}
	cols, err := t.legIndices(u)
	if err != nil {
		return "", err
	}

	base := t.exposureAt(u, cols, openIdx)

	closeIdx, reason := shutIdx, CloseShut
	for bar := openIdx; bar <= shutIdx; bar++ {
		pnl := t.exposureAt(u, cols, bar) - base
		if t.Take != nil && pnl >= *t.Take {
			closeIdx, reason = bar, CloseTake
			break
		}
		if t.Stop != nil && pnl <= *t.Stop {
			closeIdx, reason = bar, CloseStop
			break
		}
	}

	t.result = &Result{
		CloseBar: u.Bars()[closeIdx],
		Reason:   reason,
	}
	return t.result.CloseBar, nil
}

// SeriesExposure returns the trade's exposure at every bar of the universe.
// With net=true legs are summed signed; with net=false the absolute per-leg
// exposures are summed (gross magnitude). Defined whether or not the trade
// has been executed.
func (t *Trade) SeriesExposure(u *market.Universe, net bool) ([]float64, error) {
	cols, err := t.legIndices(u)
	if err != nil {
		return nil, err
	}

	series := make([]float64, u.NumBars())
	for bar := range series {
		var v float64
		for i, col := range cols {
			leg := t.Lots[i] * u.PriceAt(bar, col)
			if !net && leg < 0 {
				leg = -leg
			}
			v += leg
		}
		series[bar] = v
	}
	return series, nil
}

// FinalPnL is the realized net profit: net exposure at the close bar minus
// net exposure at the open bar.
func (t *Trade) FinalPnL(u *market.Universe) (float64, error) {
	if t.result == nil {
		return 0, t.unexecuted()
	}
	openIdx, _, err := t.window(u)
	if err != nil {
		return 0, err
	}
	closeIdx, err := u.BarIndex(t.result.CloseBar)
	if err != nil {
		return 0, err
	}
	cols, err := t.legIndices(u)
	if err != nil {
		return 0, err
	}
	return t.exposureAt(u, cols, closeIdx) - t.exposureAt(u, cols, openIdx), nil
}

// FinalLegPnL is the realized profit per leg, in leg order.
func (t *Trade) FinalLegPnL(u *market.Universe) ([]float64, error) {
	if t.result == nil {
		return nil, t.unexecuted()
	}
	openIdx, _, err := t.window(u)
	if err != nil {
		return nil, err
	}
	closeIdx, err := u.BarIndex(t.result.CloseBar)
	if err != nil {
		return nil, err
	}
	cols, err := t.legIndices(u)
	if err != nil {
		return nil, err
	}

	pnl := make([]float64, len(cols))
	for i, col := range cols {
		pnl[i] = t.Lots[i] * (u.PriceAt(closeIdx, col) - u.PriceAt(openIdx, col))
	}
	return pnl, nil
}

// SeriesPnL returns the running net P&L for each bar from the open bar to
// the close bar inclusive: the net exposure curve minus its open-bar value.
func (t *Trade) SeriesPnL(u *market.Universe) ([]float64, error) {
	if t.result == nil {
		return nil, t.unexecuted()
	}
	openIdx, _, err := t.window(u)
	if err != nil {
		return nil, err
	}
	closeIdx, err := u.BarIndex(t.result.CloseBar)
	if err != nil {
		return nil, err
	}
	cols, err := t.legIndices(u)
	if err != nil {
		return nil, err
	}

	base := t.exposureAt(u, cols, openIdx)
	series := make([]float64, closeIdx-openIdx+1)
	for bar := openIdx; bar <= closeIdx; bar++ {
		series[bar-openIdx] = t.exposureAt(u, cols, bar) - base
	}
	return series, nil
}

// WindowBars returns the bar labels from the open bar to the close bar
// inclusive, aligned with SeriesPnL.
func (t *Trade) WindowBars(u *market.Universe) ([]string, error) {
	if t.result == nil {
		return nil, t.unexecuted()
	}
	openIdx, _, err := t.window(u)
	if err != nil {
		return nil, err
	}
	closeIdx, err := u.BarIndex(t.result.CloseBar)
	if err != nil {
		return nil, err
	}
	return u.Bars()[openIdx : closeIdx+1], nil
}
