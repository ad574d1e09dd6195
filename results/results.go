// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package results stores the outcome of routing: one route per source merger
// and target chip, indexed both ways, and the route trees built from them.
//
package results

import (
	"io"
	"sort"
	"sync"

	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Errors.
//
var (
	ErrDuplicate   = errors.New("conflicting route for source and target")
	ErrInvalidItem = errors.New("invalid routing result")
	ErrVersion     = errors.New("unsupported results version")
)

// Source identifies the relay merger a route starts from.
//
type Source struct {
	Chip   coord.Chip
	Merger coord.RelayMerger
}

func (s Source) String() string {
	return s.Chip.String() + "/" + s.Merger.String()
}

func compareSource(a, b Source) int {
	if c := coord.Compare(a.Chip, b.Chip); c != 0 {
		return c
	}
	return coord.Compare(a.Merger, b.Merger)
}

// Item is a single route from a source merger to a target chip.
//
type Item struct {
	Route  hwroute.Route
	Source Source
	// Target is the chip holding the receiving terminals. It can be a
	// neighbour of the target chip of Route when the route ends on a vertical
	// bus feeding the driver slots of the adjacent chip.
	Target coord.Chip
}

// NewItem checks that route is a complete result and returns the
// corresponding Item.
//
// route must start with a relay merger, optionally preceded by its output
// merger, and end on a vertical bus, a driver slot or a terminal. target must
// be the target chip of the route or, for routes ending on a vertical bus, the
// neighbour on the side of that bus.
//
func NewItem(route hwroute.Route, target coord.Chip) (Item, error) {
	if route.Empty() {
		return Item{}, errors.Wrap(ErrInvalidItem, "empty route")
	}
	segs := route.Segments()
	chip := segs[0].(coord.Chip)
	front := segs[1]
	if _, ok := front.(coord.OutputMerger); ok && len(segs) > 2 {
		front = segs[2]
	}
	m, ok := front.(coord.RelayMerger)
	if !ok {
		return Item{}, errors.Wrapf(ErrInvalidItem, "route %v does not start with a relay merger", route)
	}

	end, _ := route.TargetChip()
	switch b := segs[len(segs)-1].(type) {
	case coord.VerticalBus:
		if target == end {
			break
		}
		n, ok := end.West()
		if b.Side() == coord.Right {
			n, ok = end.East()
		}
		if !ok || target != n {
			return Item{}, errors.Wrapf(ErrInvalidItem, "target %v has to match end of route %v or adjacent chip", target, route)
		}
	case coord.DriverSlot, coord.Terminal:
		if target != end {
			return Item{}, errors.Wrapf(ErrInvalidItem, "target %v does not match end of route %v", target, route)
		}
	default:
		return Item{}, errors.Wrapf(ErrInvalidItem, "route %v ends on %v", route, b)
	}
	return Item{Route: route, Source: Source{chip, m}, Target: target}, nil
}

type key struct {
	src    Source
	target coord.Chip
}

// Routing holds routing results. The zero value is an empty Routing ready to
// use. A Routing is safe for concurrent use.
//
type Routing struct {
	mu       sync.RWMutex
	items    []Item
	byKey    map[key]int
	bySource map[Source][]int
	byTarget map[coord.Chip][]int
}

// Add adds route to target to the results. It returns ErrDuplicate if a route
// between the same source and target is already there.
//
func (r *Routing) Add(route hwroute.Route, target coord.Chip) (Item, error) {
	it, err := NewItem(route, target)
	if err != nil {
		return Item{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err = r.add(it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Routing) add(it Item) error {
	k := key{it.Source, it.Target}
	if _, ok := r.byKey[k]; ok {
		return errors.Wrapf(ErrDuplicate, "from %v to %v", it.Source, it.Target)
	}
	if r.byKey == nil {
		r.byKey = make(map[key]int)
		r.bySource = make(map[Source][]int)
		r.byTarget = make(map[coord.Chip][]int)
	}
	i := len(r.items)
	r.items = append(r.items, it)
	r.byKey[k] = i
	r.bySource[it.Source] = append(r.bySource[it.Source], i)
	r.byTarget[it.Target] = append(r.byTarget[it.Target], i)
	return nil
}

// Lookup returns the route from src to target.
//
func (r *Routing) Lookup(src Source, target coord.Chip) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byKey[key{src, target}]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

func (r *Routing) collect(idx []int) []Item {
	items := make([]Item, len(idx))
	for i, n := range idx {
		items[i] = r.items[n]
	}
	return items
}

// From returns all routes starting from src, in insertion order.
//
func (r *Routing) From(src Source) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.bySource[src])
}

// To returns all routes leading to chip, in insertion order.
//
func (r *Routing) To(chip coord.Chip) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byTarget[chip])
}

// Items returns all routes in insertion order.
//
func (r *Routing) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Item(nil), r.items...)
}

// Len returns the number of routes.
//
func (r *Routing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sources returns the sources of all routes, sorted by chip then merger.
//
func (r *Routing) Sources() []Source {
	r.mu.RLock()
	srcs := make([]Source, 0, len(r.bySource))
	for s := range r.bySource {
		srcs = append(srcs, s)
	}
	r.mu.RUnlock()
	sort.Slice(srcs, func(i, j int) bool { return compareSource(srcs[i], srcs[j]) < 0 })
	return srcs
}

func routes(items []Item) []hwroute.Route {
	rs := make([]hwroute.Route, len(items))
	for i := range items {
		rs[i] = items[i].Route
	}
	return rs
}

// Tree merges all routes from src into a route tree, using the given number
// of workers (see hwroute.Build).
//
func (r *Routing) Tree(src Source, workers int) (*hwroute.RouteTree, error) {
	t, err := hwroute.Build(routes(r.From(src)), workers)
	if err != nil {
		return nil, errors.Wrapf(err, "building tree for %v", src)
	}
	return t, nil
}

// Trees returns the route trees of all sources.
//
func (r *Routing) Trees(workers int) (map[Source]*hwroute.RouteTree, error) {
	ts := make(map[Source]*hwroute.RouteTree)
	for _, src := range r.Sources() {
		t, err := r.Tree(src, workers)
		if err != nil {
			return nil, err
		}
		ts[src] = t
	}
	return ts, nil
}

const version = 1

type wireItem struct {
	_msgpack struct{} `msgpack:",as_array"`
	Route    hwroute.Route
	Target   [2]int
}

type wireRouting struct {
	Version int        `msgpack:"version"`
	Items   []wireItem `msgpack:"items"`
}

// Save writes the results to w in msgpack format.
//
func (r *Routing) Save(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wr := wireRouting{Version: version, Items: make([]wireItem, len(r.items))}
	for i, it := range r.items {
		wr.Items[i] = wireItem{Route: it.Route, Target: [2]int{it.Target.X, it.Target.Y}}
	}
	return errors.Wrap(msgpack.NewEncoder(w).Encode(&wr), "saving routing results")
}

// Load reads results written by Save. Every item is validated.
//
func Load(rd io.Reader) (*Routing, error) {
	var wr wireRouting
	if err := msgpack.NewDecoder(rd).Decode(&wr); err != nil {
		return nil, errors.Wrap(err, "loading routing results")
	}
	if wr.Version != version {
		return nil, errors.Wrapf(ErrVersion, "version %d", wr.Version)
	}
	r := new(Routing)
	for i, wi := range wr.Items {
		target := coord.Chip{X: wi.Target[0], Y: wi.Target[1]}
		if !target.Valid() {
			return nil, errors.Wrapf(ErrInvalidItem, "item %d: target %v out of range", i, target)
		}
		it, err := NewItem(wi.Route, target)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		if err = r.add(it); err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
	}
	return r, nil
}
