// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"sort"
	"strings"

	"github.com/db47h/hwroute/coord"
	"github.com/pkg/errors"
)

// A RouteTree merges routes that share a physical prefix into a path
// compressed tree.
//
// Each node holds the head common to every route merged at or below it and one
// tail per distinct continuation after head. Tail heads start with the Chip
// their first segment lives on. A tail with an empty head records that a
// merged route ends exactly at the parent head.
//
// The shape of a RouteTree only depends on the set of routes added to it, not
// on the order in which they were added.
//
type RouteTree struct {
	head  Route
	tails []*RouteTree // sorted by key, end marker last
}

// NewTree returns an empty tree.
//
func NewTree() *RouteTree {
	return &RouteTree{}
}

// NewTreeFrom returns a tree holding the single route r.
//
func NewTreeFrom(r Route) *RouteTree {
	return &RouteTree{head: r}
}

// Clone returns a deep copy of t.
//
func (t *RouteTree) Clone() *RouteTree {
	c := &RouteTree{head: t.head}
	if len(t.tails) > 0 {
		c.tails = make([]*RouteTree, len(t.tails))
		for i, s := range t.tails {
			c.tails[i] = s.Clone()
		}
	}
	return c
}

// Empty returns true if t has neither head nor tails.
//
func (t *RouteTree) Empty() bool {
	return t.head.Empty() && len(t.tails) == 0
}

// Head returns the route common to every route merged in t. Routes are values
// and can be freely modified by the caller.
//
func (t *RouteTree) Head() Route {
	return t.head
}

// HasTails returns true if t is a branch node.
//
func (t *RouteTree) HasTails() bool {
	return len(t.tails) > 0
}

// Tails returns copies of the child trees of t. Non-empty tails come first,
// ordered by chip then first segment. An empty tail, if any, comes last.
//
func (t *RouteTree) Tails() []*RouteTree {
	ts := make([]*RouteTree, len(t.tails))
	for i, s := range t.tails {
		ts[i] = s.Clone()
	}
	return ts
}

// marker reports whether t is the end marker of a route ending at its parent.
//
func (t *RouteTree) marker() bool {
	return t.head.Empty()
}

func (t *RouteTree) hasMarker() bool {
	n := len(t.tails)
	return n > 0 && t.tails[n-1].marker()
}

func compareKey(c0 coord.Chip, s0 coord.Segment, c1 coord.Chip, s1 coord.Segment) int {
	if c := coord.Compare(c0, c1); c != 0 {
		return c
	}
	return coord.Compare(s0, s1)
}

// find returns the position of the tail with the given key, or the position
// where such a tail should be inserted.
//
func (t *RouteTree) find(c coord.Chip, s coord.Segment) (int, bool) {
	n := len(t.tails)
	if t.hasMarker() {
		n--
	}
	i := sort.Search(n, func(i int) bool {
		tc, ts := t.tails[i].head.key()
		return compareKey(tc, ts, c, s) >= 0
	})
	if i < n {
		tc, ts := t.tails[i].head.key()
		return i, tc == c && ts == s
	}
	return i, false
}

func (t *RouteTree) insert(i int, s *RouteTree) {
	t.tails = append(t.tails, nil)
	copy(t.tails[i+1:], t.tails[i:])
	t.tails[i] = s
}

func (t *RouteTree) addMarker() {
	if !t.hasMarker() {
		t.tails = append(t.tails, &RouteTree{})
	}
}

// addTail adds the tail route r, which must start with a Chip marker.
//
func (t *RouteTree) addTail(r Route) {
	c, s := r.key()
	i, ok := t.find(c, s)
	if ok {
		t.tails[i].add(r)
		return
	}
	t.insert(i, NewTreeFrom(r))
}

// Add merges r into t. Adding an empty route is a no-op.
//
// Unless t is empty, r must share at least one segment past the source chip
// with the head of t, otherwise Add returns ErrDisjointRoute and leaves t
// unchanged.
//
func (t *RouteTree) Add(r Route) error {
	if r.Empty() {
		return nil
	}
	if t.Empty() {
		t.head = r
		return nil
	}
	if t.head.commonPrefix(r) <= 1 {
		return errors.Wrapf(ErrDisjointRoute, "adding %v to tree with head %v", r, t.head)
	}
	t.add(r)
	return nil
}

// add merges r into t. r and t.head share at least their key.
//
func (t *RouteTree) add(r Route) {
	p := t.head.commonPrefix(r)
	hl, rl := t.head.Len(), r.Len()

	switch {
	case p == hl && p == rl:
		// already there, record it as ending here if t branches.
		if len(t.tails) > 0 {
			t.addMarker()
		}
	case p == hl:
		_, rest := r.Split(p)
		if len(t.tails) == 0 {
			t.addMarker()
		}
		t.addTail(rest)
	default:
		h, hrest := t.head.Split(p)
		old := &RouteTree{head: hrest, tails: t.tails}
		t.head = h
		t.tails = []*RouteTree{old}
		if h.Len() == rl {
			t.addMarker()
			return
		}
		_, rest := r.Split(h.Len())
		t.addTail(rest)
	}
}

// Equal reports whether t and o hold the same set of routes.
//
func (t *RouteTree) Equal(o *RouteTree) bool {
	if !t.head.Equal(o.head) || len(t.tails) != len(o.tails) {
		return false
	}
	for i, s := range t.tails {
		if !s.Equal(o.tails[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct routes merged in t.
//
func (t *RouteTree) Len() int {
	if len(t.tails) == 0 {
		if t.head.Empty() {
			return 0
		}
		return 1
	}
	n := 0
	for _, s := range t.tails {
		if s.marker() {
			n++
			continue
		}
		n += s.Len()
	}
	return n
}

// Routes returns every route merged in t, in tree order.
//
func (t *RouteTree) Routes() []Route {
	var rs []Route
	t.routes(Route{}, &rs)
	return rs
}

func (t *RouteTree) routes(acc Route, rs *[]Route) {
	acc = acc.concat(t.head)
	if len(t.tails) == 0 {
		if !acc.Empty() {
			*rs = append(*rs, acc)
		}
		return
	}
	for _, s := range t.tails {
		if s.marker() {
			*rs = append(*rs, acc)
			continue
		}
		s.routes(acc, rs)
	}
}

// Merge adds every route of o to t. On error, t is left unchanged.
//
func (t *RouteTree) Merge(o *RouteTree) error {
	n := t.Clone()
	for _, r := range o.Routes() {
		if err := n.Add(r); err != nil {
			return err
		}
	}
	*t = *n
	return nil
}

// Prepend inserts r before the head of t according to mode. The tails of t must
// remain valid continuations of the new head.
//
func (t *RouteTree) Prepend(r Route, mode ExtendMode) error {
	h := t.head
	if err := h.Prepend(r, mode); err != nil {
		return err
	}
	for _, s := range t.tails {
		if s.marker() {
			continue
		}
		if err := checkJunction(h, s.head); err != nil {
			return err
		}
	}
	t.head = h
	return nil
}

// checkJunction verifies that tail can follow head.
//
func checkJunction(head, tail Route) error {
	segs := head.concat(tail).segs
	if bad := FindInvalid(segs); bad >= 0 {
		return invalid(segs[bad], bad, "invalid junction with tail")
	}
	return nil
}

// Walk calls fn for every node of t in depth-first order. path is the route
// from the root up to and including the head of the node, ends reports whether
// a merged route ends at that node. End markers are not visited. Walk stops at
// the first error returned by fn.
//
func (t *RouteTree) Walk(fn func(depth int, path Route, head Route, ends bool) error) error {
	if t.Empty() {
		return nil
	}
	return t.walk(0, Route{}, fn)
}

func (t *RouteTree) walk(depth int, acc Route, fn func(int, Route, Route, bool) error) error {
	acc = acc.concat(t.head)
	if err := fn(depth, acc, t.head, len(t.tails) == 0 || t.hasMarker()); err != nil {
		return err
	}
	for _, s := range t.tails {
		if s.marker() {
			continue
		}
		if err := s.walk(depth+1, acc, fn); err != nil {
			return err
		}
	}
	return nil
}

// String returns an indented representation of t, one node per line.
// Branch nodes at which a merged route ends are marked with a trailing '$'.
//
func (t *RouteTree) String() string {
	var b strings.Builder
	if !t.Empty() {
		t.format(&b, 0)
	}
	return b.String()
}

func (t *RouteTree) format(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(t.head.String())
	if t.hasMarker() {
		b.WriteString(" $")
	}
	b.WriteByte('\n')
	for _, s := range t.tails {
		if !s.marker() {
			s.format(b, depth+1)
		}
	}
}
