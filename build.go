// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Build merges routes into a new RouteTree.
//
// workers is the number of goroutines used to build partial trees. If less or
// equal to 0, the value of GOMAXPROCS will be used. Partial trees are then
// merged sequentially in the order of routes. Since merging is order
// independent, the result is the same as adding all routes to a single tree.
//
func Build(routes []Route, workers int) (*RouteTree, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}

	var chunks [][]Route
	for rs := routes; len(rs) > 0; workers-- {
		size := len(rs) / workers
		if size*workers < len(rs) {
			size++
		}
		chunks = append(chunks, rs[:size])
		rs = rs[size:]
	}

	parts := make([]*RouteTree, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for i, rs := range chunks {
		go func(i int, rs []Route) {
			defer wg.Done()
			parts[i], errs[i] = buildPart(rs)
		}(i, rs)
	}
	wg.Wait()

	t := NewTree()
	for i, p := range parts {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if err := t.Merge(p); err != nil {
			return nil, errors.Wrapf(err, "merging partial tree %d", i)
		}
	}
	return t, nil
}

func buildPart(rs []Route) (*RouteTree, error) {
	t := NewTree()
	for _, r := range rs {
		if err := t.Add(r); err != nil {
			return nil, err
		}
	}
	return t, nil
}
