// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coord

import (
	"github.com/pkg/errors"
)

// East returns the chip to the east of c. ok is false on the wafer edge.
//
func (c Chip) East() (Chip, bool) { return c.shift(1, 0) }

// West returns the chip to the west of c.
//
func (c Chip) West() (Chip, bool) { return c.shift(-1, 0) }

// North returns the chip to the north of c.
//
func (c Chip) North() (Chip, bool) { return c.shift(0, -1) }

// South returns the chip to the south of c.
//
func (c Chip) South() (Chip, bool) { return c.shift(0, 1) }

func (c Chip) shift(dx, dy int) (Chip, bool) {
	n := Chip{c.X + dx, c.Y + dy}
	return n, n.Valid()
}

// Adjacent reports whether c and o share an edge.
//
func (c Chip) Adjacent(o Chip) bool {
	dx, dy := o.X-c.X, o.Y-c.Y
	return dx*dx+dy*dy == 1
}

// East returns the bus that continues h on the chip to the east.
//
func (h HorizontalBus) East() HorizontalBus {
	return HorizontalBus((int(h) + 2) % HorizontalBusCount)
}

// West returns the bus that continues h on the chip to the west.
//
func (h HorizontalBus) West() HorizontalBus {
	return HorizontalBus((int(h) + HorizontalBusCount - 2) % HorizontalBusCount)
}

// Side returns the chip half v runs on.
//
func (v VerticalBus) Side() Side {
	if v < verticalHalf {
		return Left
	}
	return Right
}

func (v VerticalBus) shift(d int) VerticalBus {
	base := int(v) / verticalHalf * verticalHalf
	return VerticalBus(base + (int(v)-base+d+verticalHalf)%verticalHalf)
}

// South returns the bus that continues v on the chip to the south.
//
func (v VerticalBus) South() VerticalBus { return v.shift(2) }

// North returns the bus that continues v on the chip to the north.
//
func (v VerticalBus) North() VerticalBus { return v.shift(-2) }

// SendingBus returns the horizontal bus driven by the sending repeater of m.
//
func (m RelayMerger) SendingBus() HorizontalBus {
	return HorizontalBus(HorizontalBusCount - 2 - 8*int(m))
}

// Crossbar reports whether the crossbar of a chip has a switch between v and h.
// Each horizontal bus reaches four vertical buses on each half and each
// vertical bus reaches two horizontal buses.
//
func Crossbar(v VerticalBus, h HorizontalBus) bool {
	if !v.Valid() || !h.Valid() {
		return false
	}
	p := int(h) / 2
	if v.Side() == Left {
		return int(v)%32 == 31-p
	}
	return int(v)%32 == p
}

// DriverSwitch reports whether v can be switched onto driver slot d of the
// same chip.
//
func DriverSwitch(v VerticalBus, d DriverSlot) bool {
	if !v.Valid() || !d.Valid() {
		return false
	}
	return v.Side() == d.Side && (int(v)%32)/2 == d.Row%16
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to or
// after b. Segments are ordered by kind first, then by coordinates.
//
func Compare(a, b Segment) int {
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		return cmpInt(int(ka), int(kb))
	}
	a0, a1 := Values(a)
	b0, b1 := Values(b)
	if a0 != b0 {
		return cmpInt(a0, b0)
	}
	return cmpInt(a1, b1)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Values returns the two coordinate values of s. Single valued segments
// return 0 as their second value. Together with the kind they are enough to
// rebuild the segment with Make.
//
func Values(s Segment) (a, b int) {
	switch s := s.(type) {
	case Chip:
		return s.X, s.Y
	case OutputMerger:
		return int(s), 0
	case RelayMerger:
		return int(s), 0
	case HorizontalBus:
		return int(s), 0
	case VerticalBus:
		return int(s), 0
	case DriverSlot:
		return int(s.Side), s.Row
	case Terminal:
		return s.Column, s.Row
	}
	panic("unknown segment type")
}

// Make builds a segment of kind k from its coordinate values.
// It returns an error if k is unknown or if the values are out of range.
//
func Make(k Kind, a, b int) (Segment, error) {
	var s Segment
	switch k {
	case KindChip:
		s = Chip{a, b}
	case KindOutputMerger:
		s = OutputMerger(a)
	case KindRelayMerger:
		s = RelayMerger(a)
	case KindHorizontalBus:
		s = HorizontalBus(a)
	case KindVerticalBus:
		s = VerticalBus(a)
	case KindDriverSlot:
		if a != int(Left) && a != int(Right) {
			return nil, errors.Errorf("invalid side %d", a)
		}
		s = DriverSlot{Side(a), b}
	case KindTerminal:
		s = Terminal{a, b}
	default:
		return nil, errors.Errorf("unknown segment kind %d", k)
	}
	if k != KindDriverSlot && k != KindChip && k != KindTerminal && b != 0 {
		return nil, errors.Errorf("unexpected second value %d for %s", b, k)
	}
	if !s.Valid() {
		return nil, errors.New("segment out of range: " + s.String())
	}
	return s, nil
}
