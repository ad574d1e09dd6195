// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing routes.
//
package hwtest

import (
	"math/rand"
	"testing"

	"github.com/db47h/hwroute"
)

// Orders are tried exhaustively up to this many routes, and sampled beyond.
const (
	exhaustive = 6
	samples    = 1000
	seed       = 42
)

// permute calls fn with every permutation of [0, n), using Heap's algorithm.
// fn must not keep p.
//
func permute(n int, fn func(p []int)) {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	c := make([]int, n)
	fn(p)
	for i := 0; i < n; {
		if c[i] < i {
			if i%2 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[c[i]], p[i] = p[i], p[c[i]]
			}
			fn(p)
			c[i]++
			i = 0
			continue
		}
		c[i] = 0
		i++
	}
}

func build(t *testing.T, routes []hwroute.Route, order []int) *hwroute.RouteTree {
	t.Helper()
	tr := hwroute.NewTree()
	for _, i := range order {
		if err := tr.Add(routes[i]); err != nil {
			t.Fatalf("order %v: adding route %d: %v", order, i, err)
		}
	}
	return tr
}

// CheckOrderIndependence verifies that merging routes into a RouteTree yields
// the same tree whatever the order they are added in. All orders are tried
// for up to 6 routes, otherwise a fixed set of random orders is used.
//
// The trees built by hwroute.Build with various worker counts are checked as
// well.
//
func CheckOrderIndependence(t *testing.T, routes []hwroute.Route) {
	t.Helper()

	order := make([]int, len(routes))
	for i := range order {
		order[i] = i
	}
	want := build(t, routes, order)

	check := func(p []int) {
		if got := build(t, routes, p); !got.Equal(want) {
			t.Fatalf("order %v:\ngot\n%v\nwant\n%v", p, got, want)
		}
	}
	if len(routes) <= exhaustive {
		permute(len(routes), check)
	} else {
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < samples; i++ {
			check(rng.Perm(len(routes)))
		}
	}

	for _, w := range []int{1, 2, 3, len(routes)} {
		got, err := hwroute.Build(routes, w)
		if err != nil {
			t.Fatalf("Build with %d workers: %v", w, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Build with %d workers:\ngot\n%v\nwant\n%v", w, got, want)
		}
	}
}
