// Package series builds the gap-free minute grid that the indicator engine works on.
package series

import (
	"time"

	"drifter/internal/feature/recommendation/domain"
)

// Window is a closed range of whole minutes [Start, End].
type Window struct {
	Start    time.Time
	End      time.Time
	LookBack int
}

// NewWindow derives the look-back window ending one minute before the minute containing asOf.
// The window always holds exactly lookBack minutes.
func NewWindow(asOf time.Time, lookBack int) (Window, error) {
	if lookBack <= 0 {
		return Window{}, domain.ErrInvalidLookBack
	}
	if asOf.IsZero() {
		return Window{}, domain.ErrInvalidAsOf
	}

	end := asOf.UTC().Truncate(time.Minute).Add(-time.Minute)
	start := end.Add(-time.Duration(lookBack-1) * time.Minute)
	return Window{Start: start, End: end, LookBack: lookBack}, nil
}

// StartEpochMs is the first millisecond of the window.
func (w Window) StartEpochMs() int64 {
	return w.Start.UnixMilli()
}

// EndEpochMs is the last millisecond of the window's final minute.
func (w Window) EndEpochMs() int64 {
	return w.End.Add(time.Minute - time.Millisecond).UnixMilli()
}

// Minutes returns every minute of the window in chronological order.
func (w Window) Minutes() []time.Time {
	out := make([]time.Time, 0, w.LookBack)
	for t := w.Start; !t.After(w.End); t = t.Add(time.Minute) {
		out = append(out, t)
	}
	return out
}

// Contains reports whether the minute bucket t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
