// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"math/rand"
	"sync"

	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
)

// Step is a segment on a given chip, as passed to Route.AppendOn.
//
type Step struct {
	Chip    coord.Chip
	Segment coord.Segment
}

// terminal columns and rows are sampled on a coarse grid.
const terminalStride = 32

var candidates = sync.OnceValue(func() []coord.Segment {
	var segs []coord.Segment
	for i := 0; i < coord.MergerCount; i++ {
		segs = append(segs, coord.OutputMerger(i), coord.RelayMerger(i))
	}
	for i := 0; i < coord.HorizontalBusCount; i++ {
		segs = append(segs, coord.HorizontalBus(i))
	}
	for i := 0; i < coord.VerticalBusCount; i++ {
		segs = append(segs, coord.VerticalBus(i))
	}
	for _, s := range []coord.Side{coord.Left, coord.Right} {
		for i := 0; i < coord.DriverRows; i++ {
			segs = append(segs, coord.DriverSlot{Side: s, Row: i})
		}
	}
	for c := 0; c < coord.TerminalColumns; c += terminalStride {
		for r := 0; r < coord.TerminalRows; r += terminalStride {
			segs = append(segs, coord.Terminal{Column: c, Row: r})
		}
	}
	return segs
})

// Successors returns the steps that can extend r, on its target chip and on
// the four adjacent ones. Terminals are only sampled. Successors returns nil
// for an empty route.
//
func Successors(r hwroute.Route) []Step {
	cur, err := r.TargetChip()
	if err != nil {
		return nil
	}
	chips := []coord.Chip{cur}
	for _, f := range []func() (coord.Chip, bool){cur.North, cur.East, cur.South, cur.West} {
		if c, ok := f(); ok {
			chips = append(chips, c)
		}
	}
	var steps []Step
	for _, c := range chips {
		for _, s := range candidates() {
			n := r
			if n.AppendOn(c, s) == nil {
				steps = append(steps, Step{c, s})
			}
		}
	}
	return steps
}

// RandomRoute returns a random route leaving src through output merger m and
// its relay merger. The walk stops on a dead end or once the route is at
// least maxLen segments long.
//
func RandomRoute(rng *rand.Rand, src coord.Chip, m int, maxLen int) hwroute.Route {
	r := hwroute.MustRoute(src, coord.OutputMerger(m), coord.RelayMerger(m))
	for r.Len() < maxLen {
		steps := Successors(r)
		if len(steps) == 0 {
			break
		}
		s := steps[rng.Intn(len(steps))]
		if err := r.AppendOn(s.Chip, s.Segment); err != nil {
			panic(err)
		}
	}
	return r
}

// RandomRoutes returns n random routes sharing the same source.
//
func RandomRoutes(rng *rand.Rand, src coord.Chip, m int, n int, maxLen int) []hwroute.Route {
	rs := make([]hwroute.Route, n)
	for i := range rs {
		rs[i] = RandomRoute(rng, src, m, maxLen)
	}
	return rs
}
