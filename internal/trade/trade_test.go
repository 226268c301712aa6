package trade_test

import (
	"fmt"
	"testing"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleAssetUniverse builds a one-asset universe with bar labels "0".."n-1"
// and the given price path for "Asset0".
func singleAssetUniverse(t *testing.T, prices []float64) *market.Universe {
	t.Helper()
	bars := make([]string, len(prices))
	rows := make([][]float64, len(prices))
	for i, p := range prices {
		bars[i] = fmt.Sprintf("%d", i)
		rows[i] = []float64{p}
	}
	u, err := market.New(bars, []string{"Asset0"}, rows)
	require.NoError(t, err)
	return u
}

func ascending(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func descending(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start - float64(i)
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	tr, err := trade.New(trade.Spec{Assets: []string{"A0"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, tr.Lots, "default lot is 1.0")
	assert.NotEmpty(t, tr.ID())
	assert.False(t, tr.Executed())
}

func TestNew_Validation(t *testing.T) {
	_, err := trade.New(trade.Spec{})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = trade.New(trade.Spec{Assets: []string{"A0", "A1"}, Lots: []float64{1}})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = trade.New(trade.Spec{Assets: []string{"A0"}, Take: trade.Threshold(-1)})
	assert.ErrorIs(t, err, core.ErrThresholdSign)

	_, err = trade.New(trade.Spec{Assets: []string{"A0"}, Take: trade.Threshold(0)})
	assert.ErrorIs(t, err, core.ErrThresholdSign)

	_, err = trade.New(trade.Spec{Assets: []string{"A0"}, Stop: trade.Threshold(2)})
	assert.ErrorIs(t, err, core.ErrThresholdSign)
}

func TestSeriesExposure_Hand(t *testing.T) {
	u, err := market.New(
		[]string{"0", "1", "2", "3", "4"},
		[]string{"A0", "A1"},
		[][]float64{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}},
	)
	require.NoError(t, err)

	tr, err := trade.New(trade.Spec{
		Assets:  []string{"A0", "A1"},
		Lots:    []float64{2, -3},
		OpenBar: "1",
		ShutBar: "4",
	})
	require.NoError(t, err)

	net, err := tr.SeriesExposure(u, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{-4, -5, -6, -7, -8}, net)

	gross, err := tr.SeriesExposure(u, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 13, 18, 23, 28}, gross)
}

func TestSeriesExposure_UnknownAsset(t *testing.T) {
	u := singleAssetUniverse(t, ascending(5, 100))
	tr, err := trade.New(trade.Spec{Assets: []string{"Missing"}, OpenBar: "0"})
	require.NoError(t, err)

	_, err = tr.SeriesExposure(u, true)
	assert.ErrorIs(t, err, core.ErrUnknownAsset)
	assert.ErrorContains(t, err, "Missing")
	assert.ErrorContains(t, err, tr.ID())
}

func TestExecute_Take(t *testing.T) {
	u := singleAssetUniverse(t, ascending(100, 100))

	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Take: trade.Threshold(1.9),
	})
	require.NoError(t, err)

	closeBar, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "3", closeBar)

	pnl, err := tr.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, float64(103-101), pnl)

	reason, err := tr.CloseReason()
	require.NoError(t, err)
	assert.Equal(t, trade.CloseTake, reason)

	// Doubling the lot with a doubled threshold closes at the same bar.
	tr2, err := trade.Single("Asset0", 2.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Take: trade.Threshold(3.8),
	})
	require.NoError(t, err)

	closeBar, err = tr2.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "3", closeBar)

	pnl, err = tr2.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, 2.0*(103-101), pnl)

	// An unreachable take falls back to the shut bar.
	tr3, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Take: trade.Threshold(1000),
	})
	require.NoError(t, err)

	closeBar, err = tr3.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "5", closeBar)

	pnl, err = tr3.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, float64(105-101), pnl)

	reason, err = tr3.CloseReason()
	require.NoError(t, err)
	assert.Equal(t, trade.CloseShut, reason)
}

func TestExecute_Stop(t *testing.T) {
	u := singleAssetUniverse(t, descending(100, 100))

	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Stop: trade.Threshold(-1.9),
	})
	require.NoError(t, err)

	closeBar, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "3", closeBar)

	pnl, err := tr.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, float64(97-99), pnl)

	tr2, err := trade.Single("Asset0", 2.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Stop: trade.Threshold(-3.8),
	})
	require.NoError(t, err)

	closeBar, err = tr2.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "3", closeBar)

	pnl, err = tr2.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, 2.0*(97-99), pnl)

	tr3, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Stop: trade.Threshold(-1000),
	})
	require.NoError(t, err)

	closeBar, err = tr3.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "5", closeBar)

	pnl, err = tr3.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, float64(95-99), pnl)
}

func TestExecute_FlatPath(t *testing.T) {
	// A flat path never moves the exposure delta off zero, so neither
	// threshold fires and the trade holds to the last bar.
	u := singleAssetUniverse(t, []float64{100, 100, 100})

	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "0",
		Take:    trade.Threshold(1e-12),
		Stop:    trade.Threshold(-1e-12),
	})
	require.NoError(t, err)

	closeBar, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "2", closeBar)
}

func TestExecute_OneBarWindow(t *testing.T) {
	// shut == open: the scan still evaluates the open bar and closes there.
	u := singleAssetUniverse(t, ascending(5, 100))
	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "2", ShutBar: "2", Take: trade.Threshold(10),
	})
	require.NoError(t, err)

	closeBar, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "2", closeBar)

	pnl, err := tr.FinalPnL(u)
	require.NoError(t, err)
	assert.Zero(t, pnl)
}

func TestExecute_NoThresholds(t *testing.T) {
	u := singleAssetUniverse(t, ascending(10, 50))

	// shut bar set
	tr, err := trade.Single("Asset0", 1.0, trade.Spec{OpenBar: "2", ShutBar: "7"})
	require.NoError(t, err)
	closeBar, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, "7", closeBar)

	// shut bar unset: close at the universe's last bar
	tr2, err := trade.Single("Asset0", 1.0, trade.Spec{OpenBar: "2"})
	require.NoError(t, err)
	closeBar, err = tr2.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, u.LastBar(), closeBar)
}

func TestExecute_Idempotent(t *testing.T) {
	u := singleAssetUniverse(t, ascending(100, 100))
	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Take: trade.Threshold(1.9),
	})
	require.NoError(t, err)

	first, err := tr.Execute(u)
	require.NoError(t, err)
	second, err := tr.Execute(u)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExecute_Errors(t *testing.T) {
	u := singleAssetUniverse(t, ascending(5, 100))

	tr, err := trade.Single("Missing", 1.0, trade.Spec{OpenBar: "0"})
	require.NoError(t, err)
	_, err = tr.Execute(u)
	assert.ErrorIs(t, err, core.ErrUnknownAsset)

	tr2, err := trade.Single("Asset0", 1.0, trade.Spec{})
	require.NoError(t, err)
	_, err = tr2.Execute(u)
	assert.ErrorIs(t, err, core.ErrUnknownBar)

	tr3, err := trade.Single("Asset0", 1.0, trade.Spec{OpenBar: "9"})
	require.NoError(t, err)
	_, err = tr3.Execute(u)
	assert.ErrorIs(t, err, core.ErrUnknownBar)

	tr4, err := trade.Single("Asset0", 1.0, trade.Spec{OpenBar: "3", ShutBar: "1"})
	require.NoError(t, err)
	_, err = tr4.Execute(u)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestUnexecutedAccessFails(t *testing.T) {
	u := singleAssetUniverse(t, ascending(5, 100))

	specs := []trade.Spec{
		{Assets: []string{"Asset0"}},
		{Assets: []string{"Asset0"}, Lots: []float64{2}, OpenBar: "1"},
		{Assets: []string{"Asset0", "Asset0"}, Lots: []float64{1, -1}, OpenBar: "0", ShutBar: "4"},
	}
	for i, spec := range specs {
		tr, err := trade.New(spec)
		require.NoError(t, err, "spec %d", i)

		_, err = tr.FinalPnL(u)
		assert.ErrorIs(t, err, core.ErrUnexecutedTrade, "spec %d", i)

		_, err = tr.SeriesPnL(u)
		assert.ErrorIs(t, err, core.ErrUnexecutedTrade, "spec %d", i)

		_, err = tr.CloseBar()
		assert.ErrorIs(t, err, core.ErrUnexecutedTrade, "spec %d", i)
	}
}

func TestSeriesPnL(t *testing.T) {
	u := singleAssetUniverse(t, ascending(100, 100))
	tr, err := trade.Single("Asset0", 1.0, trade.Spec{
		OpenBar: "1", ShutBar: "5", Take: trade.Threshold(1.9),
	})
	require.NoError(t, err)
	_, err = tr.Execute(u)
	require.NoError(t, err)

	series, err := tr.SeriesPnL(u)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, series)

	bars, err := tr.WindowBars(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, bars)
}

func TestFinalLegPnL(t *testing.T) {
	u, err := market.New(
		[]string{"0", "1", "2"},
		[]string{"A0", "A1"},
		[][]float64{{10, 100}, {12, 90}, {14, 80}},
	)
	require.NoError(t, err)

	tr, err := trade.New(trade.Spec{
		Assets:  []string{"A0", "A1"},
		Lots:    []float64{2, -1},
		OpenBar: "0",
		ShutBar: "2",
	})
	require.NoError(t, err)
	_, err = tr.Execute(u)
	require.NoError(t, err)

	legs, err := tr.FinalLegPnL(u)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 20}, legs)

	net, err := tr.FinalPnL(u)
	require.NoError(t, err)
	assert.Equal(t, 28.0, net)
}
