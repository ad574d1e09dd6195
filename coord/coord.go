// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package coord provides the segment types of physical routes on a wafer and
// the topology relations between them.
//
// A wafer is a grid of chips. Each chip hosts output and relay mergers
// feeding its horizontal buses, a crossbar connecting horizontal and vertical
// buses, and driver slots that fan a vertical bus out to terminals.
//
package coord

import (
	"strconv"
)

// Wafer and chip dimensions.
const (
	ChipColumns = 36
	ChipRows    = 16

	MergerCount        = 8
	HorizontalBusCount = 64
	VerticalBusCount   = 256
	DriverRows         = 112
	TerminalColumns    = 256
	TerminalRows       = 224

	verticalHalf = VerticalBusCount / 2
)

// A Kind identifies the concrete type of a Segment. The order of kinds is
// part of the ordering defined by Compare.
//
type Kind uint8

// Segment kinds.
const (
	KindChip Kind = iota
	KindOutputMerger
	KindRelayMerger
	KindHorizontalBus
	KindVerticalBus
	KindDriverSlot
	KindTerminal

	kindCount
)

var kindNames = [...]string{
	KindChip:          "chip",
	KindOutputMerger:  "out",
	KindRelayMerger:   "relay",
	KindHorizontalBus: "hbus",
	KindVerticalBus:   "vbus",
	KindDriverSlot:    "driver",
	KindTerminal:      "term",
}

// String returns the short name of k as used in the textual route format.
//
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the defined kinds.
//
func (k Kind) Valid() bool { return k < kindCount }

// KindByName returns the Kind whose short name is name.
//
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// A Segment is one element of a physical route. The set of implementations is
// closed: Chip, OutputMerger, RelayMerger, HorizontalBus, VerticalBus,
// DriverSlot and Terminal.
//
// Segments are plain values and compare with ==.
//
type Segment interface {
	Kind() Kind
	// Valid reports whether the coordinates are within the wafer limits.
	Valid() bool
	String() string
	segment()
}

// Side is the horizontal side of a chip.
//
type Side uint8

// Sides.
const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Opposite returns the other side.
//
func (s Side) Opposite() Side { return s ^ 1 }

// ParseSide parses "left" or "right".
//
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// Chip identifies one interconnect node of the wafer.
//
type Chip struct {
	X, Y int
}

// OutputMerger is the first fan-in stage of a chip.
//
type OutputMerger int

// RelayMerger is the second fan-in stage, driving a sending bus.
//
type RelayMerger int

// HorizontalBus is a horizontal wire of the interconnect fabric.
//
type HorizontalBus int

// VerticalBus is a vertical wire of the interconnect fabric. Buses below 128
// run on the left half of a chip, the others on the right half.
//
type VerticalBus int

// DriverSlot is a receiving-side fan-out element.
//
type DriverSlot struct {
	Side Side
	Row  int
}

// Terminal is the final sink of a route.
//
type Terminal struct {
	Column, Row int
}

func (Chip) Kind() Kind          { return KindChip }
func (OutputMerger) Kind() Kind  { return KindOutputMerger }
func (RelayMerger) Kind() Kind   { return KindRelayMerger }
func (HorizontalBus) Kind() Kind { return KindHorizontalBus }
func (VerticalBus) Kind() Kind   { return KindVerticalBus }
func (DriverSlot) Kind() Kind    { return KindDriverSlot }
func (Terminal) Kind() Kind      { return KindTerminal }

func (Chip) segment()          {}
func (OutputMerger) segment()  {}
func (RelayMerger) segment()   {}
func (HorizontalBus) segment() {}
func (VerticalBus) segment()   {}
func (DriverSlot) segment()    {}
func (Terminal) segment()      {}

func inRange(v, n int) bool { return 0 <= v && v < n }

func (c Chip) Valid() bool          { return inRange(c.X, ChipColumns) && inRange(c.Y, ChipRows) }
func (m OutputMerger) Valid() bool  { return inRange(int(m), MergerCount) }
func (m RelayMerger) Valid() bool   { return inRange(int(m), MergerCount) }
func (h HorizontalBus) Valid() bool { return inRange(int(h), HorizontalBusCount) }
func (v VerticalBus) Valid() bool   { return inRange(int(v), VerticalBusCount) }
func (d DriverSlot) Valid() bool    { return d.Side <= Right && inRange(d.Row, DriverRows) }
func (t Terminal) Valid() bool {
	return inRange(t.Column, TerminalColumns) && inRange(t.Row, TerminalRows)
}

func item1(k Kind, a int) string {
	return k.String() + "(" + strconv.Itoa(a) + ")"
}

func item2(k Kind, a, b string) string {
	return k.String() + "(" + a + "," + b + ")"
}

func (c Chip) String() string {
	return item2(KindChip, strconv.Itoa(c.X), strconv.Itoa(c.Y))
}
func (m OutputMerger) String() string  { return item1(KindOutputMerger, int(m)) }
func (m RelayMerger) String() string   { return item1(KindRelayMerger, int(m)) }
func (h HorizontalBus) String() string { return item1(KindHorizontalBus, int(h)) }
func (v VerticalBus) String() string   { return item1(KindVerticalBus, int(v)) }
func (d DriverSlot) String() string {
	return item2(KindDriverSlot, d.Side.String(), strconv.Itoa(d.Row))
}
func (t Terminal) String() string {
	return item2(KindTerminal, strconv.Itoa(t.Column), strconv.Itoa(t.Row))
}
