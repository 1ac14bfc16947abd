package model

import (
	"fmt"
	"math"
)

// TimeWindow bounds when an operation may start.
type TimeWindow struct {
	Start float64
	End   float64
}

// Eternity is the window used when nothing narrower was given.
var Eternity = TimeWindow{Start: 0, End: math.MaxFloat64}

func NewTimeWindow(start, end float64) (TimeWindow, error) {
	if start < 0 || end < 0 {
		return TimeWindow{}, fmt.Errorf("%w: [%g,%g] has a negative bound", ErrInvalidTimeWindow, start, end)
	}
	if end < start {
		return TimeWindow{}, fmt.Errorf("%w: end %g before start %g", ErrInvalidTimeWindow, end, start)
	}
	return TimeWindow{Start: start, End: end}, nil
}

func (w TimeWindow) Contains(t float64) bool { return t >= w.Start && t <= w.End }

func (w TimeWindow) String() string { return fmt.Sprintf("[%g,%g]", w.Start, w.End) }

// TimeWindows is a set of pairwise disjoint windows kept in insertion order.
// Values are immutable: Add returns a new set.
type TimeWindows struct {
	windows []TimeWindow
}

var anyTime = TimeWindows{windows: []TimeWindow{Eternity}}

// AnyTime returns the shared eternal window set.
func AnyTime() TimeWindows { return anyTime }

// NewTimeWindows builds a set from ws; it fails on the first overlap.
func NewTimeWindows(ws ...TimeWindow) (TimeWindows, error) {
	var set TimeWindows
	for _, w := range ws {
		var err error
		if set, err = set.Add(w); err != nil {
			return TimeWindows{}, err
		}
	}
	return set, nil
}

// Add returns a new set containing w. Adding a window whose start or end
// lies inside an existing window, or which contains one, fails.
func (s TimeWindows) Add(w TimeWindow) (TimeWindows, error) {
	if w.End < w.Start {
		return s, fmt.Errorf("%w: end %g before start %g", ErrInvalidTimeWindow, w.End, w.Start)
	}
	for _, e := range s.windows {
		if w.Start > e.Start && w.Start < e.End {
			return s, fmt.Errorf("%w: %s starts inside %s", ErrOverlappingTimeWindows, w, e)
		}
		if w.End > e.Start && w.End < e.End {
			return s, fmt.Errorf("%w: %s ends inside %s", ErrOverlappingTimeWindows, w, e)
		}
		if w.Start <= e.Start && w.End >= e.End {
			return s, fmt.Errorf("%w: %s contains %s", ErrOverlappingTimeWindows, w, e)
		}
	}
	out := make([]TimeWindow, len(s.windows), len(s.windows)+1)
	copy(out, s.windows)
	return TimeWindows{windows: append(out, w)}, nil
}

// Windows returns a copy of the windows in insertion order.
func (s TimeWindows) Windows() []TimeWindow {
	out := make([]TimeWindow, len(s.windows))
	copy(out, s.windows)
	return out
}

func (s TimeWindows) Len() int { return len(s.windows) }

func (s TimeWindows) IsEmpty() bool { return len(s.windows) == 0 }

// Earliest is the smallest start over all windows; Eternity.Start for an empty set.
func (s TimeWindows) Earliest() float64 {
	if len(s.windows) == 0 {
		return Eternity.Start
	}
	lo := s.windows[0].Start
	for _, w := range s.windows[1:] {
		if w.Start < lo {
			lo = w.Start
		}
	}
	return lo
}

// Latest is the largest end over all windows; Eternity.End for an empty set.
func (s TimeWindows) Latest() float64 {
	if len(s.windows) == 0 {
		return Eternity.End
	}
	hi := s.windows[0].End
	for _, w := range s.windows[1:] {
		if w.End > hi {
			hi = w.End
		}
	}
	return hi
}

func orAnyTime(s TimeWindows) TimeWindows {
	if s.IsEmpty() {
		return anyTime
	}
	return s
}
