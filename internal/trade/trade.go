// Package trade defines multi-leg trade specifications and their execution
// against a price universe.
package trade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shishaboy/epymetheus/internal/core"
)

// Spec declares a position before execution: one or more (asset, lot) legs,
// the bar it opens at, and optional close conditions. Take and Stop are
// thresholds on the net exposure delta from the open bar; nil disables them.
// An empty ShutBar means the position is held to the universe's last bar.
type Spec struct {
	Assets  []string
	Lots    []float64
	OpenBar string
	ShutBar string
	Take    *float64
	Stop    *float64
}

// CloseReason records which condition closed a trade.
type CloseReason string

const (
	CloseTake CloseReason = "take"
	CloseStop CloseReason = "stop"
	CloseShut CloseReason = "shut"
)

// Result is the execution outcome, populated exactly once by Execute.
type Result struct {
	CloseBar string
	Reason   CloseReason
}

// Trade is a two-phase record: an immutable specification plus an execution
// result that is nil until Execute has run.
type Trade struct {
	Spec

	id     string
	result *Result
}

// Threshold returns a pointer to v, for filling Spec.Take and Spec.Stop.
func Threshold(v float64) *float64 { return &v }

// New validates and normalizes a spec. A spec with no lots gets the default
// lot 1.0 per leg; otherwise asset and lot lengths must match. Take must be
// positive and Stop negative when set.
func New(spec Spec) (*Trade, error) {
	if len(spec.Assets) == 0 {
		return nil, core.WrapError(core.ErrShapeMismatch, fmt.Errorf("trade has no legs"))
	}

	if len(spec.Lots) == 0 {
		spec.Lots = make([]float64, len(spec.Assets))
		for i := range spec.Lots {
			spec.Lots[i] = 1.0
		}
	} else if len(spec.Lots) != len(spec.Assets) {
		return nil, core.WrapError(core.ErrShapeMismatch,
			fmt.Errorf("%d assets vs %d lots", len(spec.Assets), len(spec.Lots)))
	} else {
		lots := make([]float64, len(spec.Lots))
		copy(lots, spec.Lots)
		spec.Lots = lots
	}

	assets := make([]string, len(spec.Assets))
	copy(assets, spec.Assets)
	spec.Assets = assets

	if spec.Take != nil && *spec.Take <= 0 {
		return nil, core.WrapError(core.ErrThresholdSign, fmt.Errorf("take %v", *spec.Take))
	}
	if spec.Stop != nil && *spec.Stop >= 0 {
		return nil, core.WrapError(core.ErrThresholdSign, fmt.Errorf("stop %v", *spec.Stop))
	}

	return &Trade{
		Spec: spec,
		id:   uuid.NewString(),
	}, nil
}

// Single builds a one-leg trade.
func Single(asset string, lot float64, spec Spec) (*Trade, error) {
	spec.Assets = []string{asset}
	spec.Lots = []float64{lot}
	return New(spec)
}

// ID returns the trade's identity, used in error and log context.
func (t *Trade) ID() string { return t.id }

// Executed reports whether Execute has assigned a close bar.
func (t *Trade) Executed() bool { return t.result != nil }

// CloseBar returns the bar the trade closed at.
func (t *Trade) CloseBar() (string, error) {
	if t.result == nil {
		return "", t.unexecuted()
	}
	return t.result.CloseBar, nil
}

// CloseReason returns which condition closed the trade.
func (t *Trade) CloseReason() (CloseReason, error) {
	if t.result == nil {
		return "", t.unexecuted()
	}
	return t.result.Reason, nil
}

func (t *Trade) unexecuted() error {
	return core.WrapError(core.ErrUnexecutedTrade, fmt.Errorf("trade %s", t.id))
}

// String renders a compact one-line description for logs.
func (t *Trade) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trade(assets=%v, lots=%v, open=%s", t.Assets, t.Lots, t.OpenBar)
	if t.ShutBar != "" {
		fmt.Fprintf(&sb, ", shut=%s", t.ShutBar)
	}
	if t.Take != nil {
		fmt.Fprintf(&sb, ", take=%v", *t.Take)
	}
	if t.Stop != nil {
		fmt.Fprintf(&sb, ", stop=%v", *t.Stop)
	}
	if t.result != nil {
		fmt.Fprintf(&sb, ", close=%s/%s", t.result.CloseBar, t.result.Reason)
	}
	sb.WriteString(")")
	return sb.String()
}
