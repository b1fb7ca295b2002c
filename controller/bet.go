package controller

import "github.com/pokerroom/client/protocol"

// BetEntry is the amount picker shown for bet and raise. The range control
// (Slider) and the numeric field (Input) always hold the same value.
type BetEntry struct {
	Visible bool
	Action  protocol.ActionType
	Min     int
	Max     int
	Slider  int
	Input   int
}

// Open shows the entry for a at the minimum of [lo, hi].
func (b *BetEntry) Open(a protocol.ActionType, lo, hi int) {
	*b = BetEntry{Visible: true, Action: a, Min: lo, Max: hi}
	b.set(lo)
}

// SetSlider moves the range control; the numeric field follows.
func (b *BetEntry) SetSlider(v int) {
	b.set(v)
}

// SetInput edits the numeric field; the range control follows.
func (b *BetEntry) SetInput(v int) {
	b.set(v)
}

// Rebound changes the range and re-clamps the current value.
func (b *BetEntry) Rebound(lo, hi int) {
	b.Min, b.Max = lo, hi
	b.set(b.Input)
}

func (b *BetEntry) Cancel() {
	*b = BetEntry{}
}

func (b *BetEntry) set(v int) {
	v = clamp(v, b.Min, b.Max)
	b.Slider = v
	b.Input = v
}

// clamp applies the lower bound first. The upper bound only applies when the
// range is not empty, so a short stack still sees the minimum.
func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if hi >= lo && v > hi {
		v = hi
	}
	return v
}
