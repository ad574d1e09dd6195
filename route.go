// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwroute

import (
	"iter"
	"strings"

	"github.com/db47h/hwroute/coord"
	"github.com/pkg/errors"
)

// A Route is a physical signal path on the wafer: an ordered sequence of
// segments that satisfies the transition grammar of the interconnect.
//
// A Chip segment marks the chip all following segments live on, up to the next
// Chip. Routes are only grown through Append and AppendOn, which reject
// segments that can not physically follow the current end of the route.
//
// Route is a value type. The zero value is an empty route. Copies never share
// mutable state: assigning a Route and extending the copy leaves the original
// untouched.
//
type Route struct {
	segs []coord.Segment
	chip coord.Chip // target chip, valid if len(segs) > 0
}

// NewRoute returns a route made of the given segments. It returns an
// *InvalidRouteError pointing at the first offending segment if segs do not
// form a valid route.
//
func NewRoute(segs ...coord.Segment) (Route, error) {
	if bad := FindInvalid(segs); bad >= 0 {
		return Route{}, invalid(segs[bad], bad, "invalid segment in route")
	}
	return fromSegments(append([]coord.Segment(nil), segs...)), nil
}

// MustRoute is like NewRoute but panics if segs do not form a valid route.
//
func MustRoute(segs ...coord.Segment) Route {
	r, err := NewRoute(segs...)
	if err != nil {
		panic(err)
	}
	return r
}

// fromSegments wraps segs without verification. segs must not be modified
// afterwards.
//
func fromSegments(segs []coord.Segment) Route {
	r := Route{segs: segs[:len(segs):len(segs)]}
	for i := len(segs) - 1; i >= 0; i-- {
		if c, ok := segs[i].(coord.Chip); ok {
			r.chip = c
			break
		}
	}
	return r
}

// Empty returns true if no segment has been appended to r.
//
func (r Route) Empty() bool { return len(r.segs) == 0 }

// Len returns the number of segments in r, including Chip markers.
//
func (r Route) Len() int { return len(r.segs) }

// At returns the segment at position i.
//
func (r Route) At(i int) (coord.Segment, error) {
	if i < 0 || i >= len(r.segs) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "segment %d of %d", i, len(r.segs))
	}
	return r.segs[i], nil
}

// Segments returns a copy of the segments of r, including Chip markers.
//
func (r Route) Segments() []coord.Segment {
	return append([]coord.Segment(nil), r.segs...)
}

// All returns an iterator over the index and segment pairs of r.
//
func (r Route) All() iter.Seq2[int, coord.Segment] {
	return func(yield func(int, coord.Segment) bool) {
		for i, s := range r.segs {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Front returns the first segment of r that is not a Chip.
//
func (r Route) Front() (coord.Segment, error) {
	if r.Empty() {
		return nil, errors.Wrap(ErrEmptyRoute, "Front")
	}
	return r.segs[1], nil
}

// Back returns the last segment of r. It is never a Chip.
//
func (r Route) Back() (coord.Segment, error) {
	if r.Empty() {
		return nil, errors.Wrap(ErrEmptyRoute, "Back")
	}
	return r.segs[len(r.segs)-1], nil
}

// SourceChip returns the chip r starts from.
//
func (r Route) SourceChip() (coord.Chip, error) {
	if r.Empty() {
		return coord.Chip{}, errors.Wrap(ErrEmptyRoute, "SourceChip")
	}
	return r.segs[0].(coord.Chip), nil
}

// TargetChip returns the chip r leads to. It equals SourceChip if r never
// leaves its first chip.
//
func (r Route) TargetChip() (coord.Chip, error) {
	if r.Empty() {
		return coord.Chip{}, errors.Wrap(ErrEmptyRoute, "TargetChip")
	}
	return r.chip, nil
}

// Equal reports whether r and o have the same segment sequence.
//
func (r Route) Equal(o Route) bool {
	if len(r.segs) != len(o.segs) {
		return false
	}
	for i, s := range r.segs {
		if s != o.segs[i] {
			return false
		}
	}
	return true
}

// String returns r in the textual route format accepted by ParseRoute.
//
func (r Route) String() string {
	var b strings.Builder
	for i, s := range r.segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func (r *Route) walker() walker {
	n := len(r.segs)
	w := walker{chip: r.chip, last: r.segs[n-1]}
	if n > 1 {
		w.prev = r.segs[n-2]
	}
	return w
}

// push appends segs to r. The backing array of r.segs is never shared with
// another Route, so a fresh one is allocated every time.
//
func (r *Route) push(segs ...coord.Segment) {
	n := len(r.segs)
	s := make([]coord.Segment, n+len(segs))
	copy(s, r.segs)
	copy(s[n:], segs)
	r.segs = s
}

func checkSegment(seg coord.Segment, index int) error {
	if seg == nil {
		return invalid(nil, index, "nil segment")
	}
	if !seg.Valid() {
		return invalid(seg, index, "segment out of range")
	}
	return nil
}

// Append extends r by a single segment on the current chip.
//
// Segments on another chip must be added with AppendOn. Append returns an
// *InvalidRouteError and leaves r unchanged if seg is a Chip, if r is empty, or
// if seg can not follow the last segment of r.
//
func (r *Route) Append(seg coord.Segment) error {
	n := len(r.segs)
	if err := checkSegment(seg, n); err != nil {
		return err
	}
	if isChip(seg) {
		return invalid(seg, n, "can not add chip on its own")
	}
	if n == 0 {
		return invalid(seg, n, "route has to start with a chip")
	}
	w := r.walker()
	if !w.step(seg) {
		return invalid(seg, n, "not a successor of "+w.last.String())
	}
	r.push(seg)
	return nil
}

// AppendOn extends r by a single segment located on chip.
//
// On an empty route, it starts the route on chip. Otherwise, if chip is not
// the current chip, seg must be the segment by which the last segment of r is
// received on chip. AppendOn with the current chip is the same as Append.
//
func (r *Route) AppendOn(chip coord.Chip, seg coord.Segment) error {
	n := len(r.segs)
	if !chip.Valid() {
		return invalid(chip, n, "chip out of range")
	}
	if err := checkSegment(seg, n+1); err != nil {
		return err
	}
	if isChip(seg) {
		return invalid(seg, n+1, "can not add two consecutive chips")
	}
	if n == 0 {
		r.push(chip, seg)
		r.chip = chip
		return nil
	}
	if chip == r.chip {
		return r.Append(seg)
	}
	w := r.walker()
	if !w.cross(chip, seg) {
		return invalid(seg, n+1, "not received on "+chip.String()+" from "+w.last.String()+" on "+r.chip.String())
	}
	r.push(chip, seg)
	r.chip = chip
	return nil
}

// ExtendMode selects how two routes are joined.
//
type ExtendMode int

const (
	// Extend joins [A B C] and [D E] into [A B C D E].
	Extend ExtendMode = iota
	// MergeCommonEndpoints joins [A B C] and [C D E] into [A B C D E].
	MergeCommonEndpoints
)

func (m ExtendMode) String() string {
	switch m {
	case Extend:
		return "extend"
	case MergeCommonEndpoints:
		return "merge"
	}
	return "ExtendMode(?)"
}

// Join appends other to r according to mode. If r is empty, it becomes a copy
// of other. Extending by an empty route is a no-op.
//
func (r *Route) Join(other Route, mode ExtendMode) error {
	switch mode {
	case Extend:
		return r.Extend(other)
	case MergeCommonEndpoints:
		return r.Merge(other)
	}
	return errors.Errorf("unknown extend mode %d", mode)
}

// Extend appends the segments of other to r. The first segment of other must
// be a valid successor of the last segment of r, possibly across a chip
// boundary.
//
func (r *Route) Extend(other Route) error {
	if r.Empty() {
		*r = other
		return nil
	}
	if other.Empty() {
		return nil
	}
	n := len(r.segs)
	rest := other.segs
	if other.segs[0] == r.chip {
		rest = rest[1:]
	}
	return r.commit(rest, n, "invalid starting segment when extending")
}

// Merge appends other to r, where other must start at the last segment of r.
//
func (r *Route) Merge(other Route) error {
	if r.Empty() {
		*r = other
		return nil
	}
	if other.Empty() {
		return nil
	}
	if src := other.segs[0].(coord.Chip); src != r.chip {
		return invalid(src, 0, "invalid source chip when merging, expected "+r.chip.String())
	}
	if other.segs[1] != r.segs[len(r.segs)-1] {
		return invalid(other.segs[1], 1, "invalid starting segment when merging")
	}
	return r.commit(other.segs[2:], len(r.segs), "invalid segment when merging")
}

// commit appends rest to r if the result is a valid route.
//
func (r *Route) commit(rest []coord.Segment, n int, reason string) error {
	segs := make([]coord.Segment, n+len(rest))
	copy(segs, r.segs)
	copy(segs[n:], rest)
	if bad := FindInvalid(segs); bad >= 0 {
		return invalid(segs[bad], bad, reason)
	}
	*r = fromSegments(segs)
	return nil
}

// Prepend inserts other before the segments of r according to mode.
//
func (r *Route) Prepend(other Route, mode ExtendMode) error {
	t := other
	if err := t.Join(*r, mode); err != nil {
		return err
	}
	*r = t
	return nil
}

// Split splits r before segment i into two valid routes.
//
// A Chip marker just before the split point goes to the second route, and the
// second route always starts with the chip its first segment lives on.
// Splitting at or before the first non-Chip segment returns an empty first
// route; splitting at or past the end returns an empty second route.
//
func (r Route) Split(i int) (Route, Route) {
	n := len(r.segs)
	if i >= n {
		return r, Route{}
	}
	if i > 0 && isChip(r.segs[i-1]) {
		i--
	}
	if i <= 0 {
		return Route{}, r
	}
	second := make([]coord.Segment, 0, n-i+1)
	if !isChip(r.segs[i]) {
		second = append(second, r.chipAt(i))
	}
	second = append(second, r.segs[i:]...)
	return fromSegments(r.segs[:i:i]), fromSegments(second)
}

// chipAt returns the chip segment i lives on.
//
func (r Route) chipAt(i int) coord.Chip {
	for ; i >= 0; i-- {
		if c, ok := r.segs[i].(coord.Chip); ok {
			return c
		}
	}
	panic("route does not start with a chip")
}

// commonPrefix returns the number of leading segments shared by r and o.
//
func (r Route) commonPrefix(o Route) int {
	n := 0
	for n < len(r.segs) && n < len(o.segs) && r.segs[n] == o.segs[n] {
		n++
	}
	return n
}

// key returns the chip and first segment of r. Routes produced by Split
// always have both.
//
func (r Route) key() (coord.Chip, coord.Segment) {
	return r.segs[0].(coord.Chip), r.segs[1]
}

// concat returns the route made of r followed by the tail t, where t starts
// with the chip marker of its first segment as produced by Split.
//
func (r Route) concat(t Route) Route {
	if r.Empty() {
		return t
	}
	if t.Empty() {
		return r
	}
	rest := t.segs
	if rest[0] == r.chip {
		rest = rest[1:]
	}
	segs := make([]coord.Segment, len(r.segs)+len(rest))
	copy(segs, r.segs)
	copy(segs[len(r.segs):], rest)
	return fromSegments(segs)
}
