// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"github.com/db47h/hwroute/coord"
)

// walker tracks the position of a route while it is being extended and
// decides which segments may follow.
//
type walker struct {
	chip coord.Chip    // current chip
	prev coord.Segment // segment before last, possibly a Chip. nil if none.
	last coord.Segment // last segment, never a Chip. nil on a fresh start.
}

func (w *walker) push(seg coord.Segment) {
	w.prev, w.last = w.last, seg
}

func (w *walker) enter(chip coord.Chip, seg coord.Segment) {
	w.chip = chip
	w.prev, w.last = chip, seg
}

// originating reports whether the last segment is a horizontal bus driven by
// the relay merger just before it. Such a bus can only leave the chip.
//
func (w *walker) originating() bool {
	if _, ok := w.last.(coord.HorizontalBus); !ok {
		return false
	}
	_, ok := w.prev.(coord.RelayMerger)
	return ok
}

// step reports whether next can follow the last segment on the current chip.
//
func (w *walker) step(next coord.Segment) bool {
	switch last := w.last.(type) {
	case coord.OutputMerger:
		m, ok := next.(coord.RelayMerger)
		return ok && int(m) == int(last)
	case coord.RelayMerger:
		h, ok := next.(coord.HorizontalBus)
		return ok && h == last.SendingBus()
	case coord.HorizontalBus:
		if w.originating() {
			return false
		}
		v, ok := next.(coord.VerticalBus)
		return ok && coord.Crossbar(v, last)
	case coord.VerticalBus:
		switch next := next.(type) {
		case coord.HorizontalBus:
			return coord.Crossbar(last, next)
		case coord.DriverSlot:
			return coord.DriverSwitch(last, next)
		}
	case coord.DriverSlot:
		switch next := next.(type) {
		case coord.DriverSlot:
			d := next.Row - last.Row
			return next.Side == last.Side && (d == 2 || d == -2)
		case coord.Terminal:
			return true
		}
	}
	return false
}

// cross reports whether next, located on chip, can follow the last segment
// when leaving the current chip.
//
func (w *walker) cross(chip coord.Chip, next coord.Segment) bool {
	cur := w.chip
	if !cur.Adjacent(chip) {
		return false
	}
	switch last := w.last.(type) {
	case coord.HorizontalBus:
		h, ok := next.(coord.HorizontalBus)
		if !ok || chip.Y != cur.Y {
			return false
		}
		if chip.X > cur.X {
			return h == last.East()
		}
		return h == last.West()
	case coord.RelayMerger:
		// sending repeater output to the left
		h, ok := next.(coord.HorizontalBus)
		return ok && chip.X < cur.X && h == last.SendingBus().West()
	case coord.VerticalBus:
		switch next := next.(type) {
		case coord.VerticalBus:
			if chip.X != cur.X {
				return false
			}
			if chip.Y > cur.Y {
				return next == last.South()
			}
			return next == last.North()
		case coord.DriverSlot:
			// driver slots of the adjacent chip facing this bus
			if chip.Y != cur.Y || next.Side == last.Side() {
				return false
			}
			if last.Side() == coord.Left {
				return chip.X == cur.X-1
			}
			return chip.X == cur.X+1
		}
	}
	return false
}

func valid(s coord.Segment) bool {
	return s != nil && s.Valid()
}

func isChip(s coord.Segment) bool {
	_, ok := s.(coord.Chip)
	return ok
}

// replay walks a complete segment sequence that starts with a chip. It
// returns the walker state at the end of the sequence and the index of the
// first offending segment, or -1.
//
func replay(segs []coord.Segment) (w walker, bad int) {
	w.chip = segs[0].(coord.Chip)
	for i := 1; i < len(segs); i++ {
		seg := segs[i]
		if !valid(seg) {
			return w, i
		}
		chip, ok := seg.(coord.Chip)
		if !ok {
			if w.last == nil {
				w.push(seg)
				continue
			}
			if !w.step(seg) {
				return w, i
			}
			w.push(seg)
			continue
		}
		// a chip is always followed by the segment it applies to.
		if i+1 == len(segs) || w.last == nil {
			return w, i
		}
		i++
		next := segs[i]
		if isChip(next) || !valid(next) || !w.cross(chip, next) {
			return w, i
		}
		w.enter(chip, next)
	}
	return w, -1
}

// FindInvalid returns the index of the first segment of segs that violates
// the route grammar, or -1 if segs form a valid route.
//
// A valid route is either empty or starts with a Chip, contains at least one
// other segment, and does not end with a Chip.
//
func FindInvalid(segs []coord.Segment) int {
	if len(segs) == 0 {
		return -1
	}
	if c, ok := segs[0].(coord.Chip); !ok || !c.Valid() || len(segs) == 1 {
		return 0
	}
	_, bad := replay(segs)
	return bad
}
