package hwroute_test

import (
	"fmt"
	"testing"

	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
	"github.com/db47h/hwroute/hwtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T, routes ...hwroute.Route) *hwroute.RouteTree {
	t.Helper()
	tr := hwroute.NewTree()
	for _, r := range routes {
		require.NoError(t, tr.Add(r))
	}
	return tr
}

func TestRouteTree_empty(t *testing.T) {
	tr := hwroute.NewTree()
	assert.True(t, tr.Empty())
	assert.False(t, tr.HasTails())
	assert.Empty(t, tr.Tails())
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Routes())
	assert.Equal(t, "", tr.String())
	require.NoError(t, tr.Add(hwroute.Route{}))
	assert.True(t, tr.Empty())

	assert.False(t, hwroute.NewTreeFrom(route(chip1, coord.HorizontalBus(46))).Empty())
}

func TestRouteTree_Clone(t *testing.T) {
	tr := tree(t, route(chip1, coord.HorizontalBus(46)))
	c := tr.Clone()
	assert.True(t, tr.Equal(c))

	require.NoError(t, c.Add(route(chip1, coord.HorizontalBus(46), chip2, coord.HorizontalBus(48))))
	assert.False(t, tr.Equal(c))
	assert.False(t, tr.HasTails())
}

func TestRouteTree_Head(t *testing.T) {
	r := route(chip1, coord.HorizontalBus(46))
	tr := hwroute.NewTreeFrom(r)
	assert.True(t, r.Equal(tr.Head()))

	// copy independence
	c := tr.Clone()
	h := tr.Head()
	require.NoError(t, h.AppendOn(chip2, coord.HorizontalBus(48)))
	assert.True(t, r.Equal(tr.Head()))
	assert.True(t, r.Equal(c.Head()))
}

func TestRouteTree_Tails(t *testing.T) {
	tr := tree(t, route(chip1, coord.HorizontalBus(48)))
	assert.False(t, tr.HasTails())
	require.NoError(t, tr.Add(route(chip1, coord.HorizontalBus(48), coord.VerticalBus(39))))
	require.True(t, tr.HasTails())

	before := tr.Clone()
	tails := tr.Tails()
	require.Len(t, tails, 2)
	require.NoError(t, tails[0].Add(route(chip1, coord.VerticalBus(39), coord.HorizontalBus(49))))
	tails[1] = nil
	h := tails[0].Head()
	require.NoError(t, h.Append(coord.HorizontalBus(49)))
	assert.True(t, before.Equal(tr))
}

func TestRouteTree_enPassant(t *testing.T) {
	r := route(chip1, coord.OutputMerger(2), coord.RelayMerger(2), coord.HorizontalBus(46))
	p := route(chip1, coord.OutputMerger(2), coord.RelayMerger(2))

	for _, order := range [][]hwroute.Route{{r, p}, {p, r}} {
		tr := tree(t, order...)
		assert.True(t, p.Equal(tr.Head()), "got %v", tr.Head())
		require.True(t, tr.HasTails())
		tails := tr.Tails()
		require.Len(t, tails, 2)
		assert.False(t, tails[0].Empty())
		assert.True(t, route(chip1, coord.HorizontalBus(46)).Equal(tails[0].Head()), "got %v", tails[0].Head())
		b, err := tails[0].Head().Back()
		require.NoError(t, err)
		assert.Equal(t, coord.HorizontalBus(46), b)
		assert.True(t, tails[1].Empty())
		assert.Equal(t, 2, tr.Len())
	}
}

func TestRouteTree_prefixSplit(t *testing.T) {
	a := simpleRoute()
	for i := 2; i < a.Len(); i++ {
		b, rest := a.Split(i)
		tr := hwroute.NewTreeFrom(a)
		require.NoError(t, tr.Add(b))
		assert.True(t, b.Equal(tr.Head()), "split at %d: got %v", i, tr.Head())
		require.True(t, tr.HasTails())
		tails := tr.Tails()
		require.Len(t, tails, 2)
		assert.True(t, rest.Equal(tails[0].Head()), "split at %d: got %v", i, tails[0].Head())
		assert.True(t, tails[1].Empty())
	}
}

func TestRouteTree_merge(t *testing.T) {
	r1 := route(chip1, coord.HorizontalBus(48), coord.VerticalBus(39), coord.HorizontalBus(49), coord.VerticalBus(7))
	r2 := route(chip1, coord.HorizontalBus(48), coord.VerticalBus(39))
	for _, order := range [][]hwroute.Route{{r1, r2}, {r2, r1}} {
		tr := tree(t, order...)
		assert.True(t, r2.Equal(tr.Head()), "got %v", tr.Head())
		var nonEmpty []*hwroute.RouteTree
		for _, s := range tr.Tails() {
			if !s.Empty() {
				nonEmpty = append(nonEmpty, s)
			}
		}
		require.Len(t, nonEmpty, 1)
		assert.True(t, route(chip1, coord.HorizontalBus(49), coord.VerticalBus(7)).Equal(nonEmpty[0].Head()))
	}
}

func TestRouteTree_disjoint(t *testing.T) {
	tr := tree(t, route(chip1, coord.HorizontalBus(46)))
	err := tr.Add(route(chip1, coord.HorizontalBus(2)))
	assert.Equal(t, hwroute.ErrDisjointRoute, errors.Cause(err))
	err = tr.Add(route(chip2, coord.HorizontalBus(46)))
	assert.Equal(t, hwroute.ErrDisjointRoute, errors.Cause(err))
	assert.True(t, tree(t, route(chip1, coord.HorizontalBus(46))).Equal(tr))

	require.NoError(t, hwroute.NewTree().Add(route(chip1, coord.HorizontalBus(2))))
}

func TestRouteTree_tailsSubset(t *testing.T) {
	head := route(chip1, coord.HorizontalBus(48), coord.VerticalBus(7))
	less := tree(t, head, route(chip1, coord.HorizontalBus(48), coord.VerticalBus(39)))
	more := less.Clone()
	require.NoError(t, more.Add(route(chip1, coord.HorizontalBus(48), coord.VerticalBus(71))))
	assert.False(t, less.Equal(more))
	assert.False(t, more.Equal(less))
}

func TestRouteTree_duplicate(t *testing.T) {
	r := simpleRoute()
	tr := tree(t, r, r)
	assert.True(t, hwroute.NewTreeFrom(r).Equal(tr))
	assert.Equal(t, 1, tr.Len())
}

func fanOut() []hwroute.Route {
	base := []coord.Segment{chip1, coord.OutputMerger(2), coord.RelayMerger(2), coord.HorizontalBus(46), chip2, coord.HorizontalBus(48)}
	with := func(segs ...coord.Segment) hwroute.Route {
		return hwroute.MustRoute(append(append([]coord.Segment(nil), base...), segs...)...)
	}
	south := coord.Chip{X: 6, Y: 6}
	return []hwroute.Route{
		with(),
		with(coord.VerticalBus(39)),
		with(coord.VerticalBus(39), driver99, term50),
		with(coord.VerticalBus(39), driver99, coord.Terminal{Column: 6, Row: 0}),
		with(coord.VerticalBus(39), coord.DriverSlot{Side: coord.Left, Row: 3}),
		with(coord.VerticalBus(39), south, coord.VerticalBus(41), coord.HorizontalBus(45)),
		with(coord.VerticalBus(152)),
		with(coord.Chip{X: 7, Y: 5}, coord.HorizontalBus(50)),
	}
}

func TestRouteTree_orderIndependence(t *testing.T) {
	hwtest.CheckOrderIndependence(t, fanOut())
}

func TestRouteTree_Routes(t *testing.T) {
	routes := fanOut()
	tr := tree(t, routes...)
	assert.Equal(t, len(routes), tr.Len())
	got := tr.Routes()
	require.Len(t, got, len(routes))
	for _, r := range routes {
		found := false
		for _, g := range got {
			if g.Equal(r) {
				found = true
				break
			}
		}
		assert.True(t, found, "route %v not found in %v", r, got)
	}

	// the same routes rebuild the same tree
	assert.True(t, tr.Equal(tree(t, got...)))
}

func TestRouteTree_Merge(t *testing.T) {
	routes := fanOut()
	t1 := tree(t, routes[:4]...)
	t2 := tree(t, routes[4:]...)
	require.NoError(t, t1.Merge(t2))
	assert.True(t, tree(t, routes...).Equal(t1))

	other := tree(t, route(chip2, coord.HorizontalBus(48)))
	before := t1.Clone()
	assert.Equal(t, hwroute.ErrDisjointRoute, errors.Cause(t1.Merge(other)))
	assert.True(t, before.Equal(t1))
}

func TestRouteTree_Prepend(t *testing.T) {
	tr := tree(t,
		route(chip1, coord.HorizontalBus(46), chip2, coord.HorizontalBus(48), coord.VerticalBus(39)),
		route(chip1, coord.HorizontalBus(46), chip2, coord.HorizontalBus(48), coord.VerticalBus(7)),
	)
	require.NoError(t, tr.Prepend(route(chip1, coord.OutputMerger(2), coord.RelayMerger(2)), hwroute.Extend))
	want := tree(t,
		route(chip1, coord.OutputMerger(2), coord.RelayMerger(2), coord.HorizontalBus(46), chip2, coord.HorizontalBus(48), coord.VerticalBus(39)),
		route(chip1, coord.OutputMerger(2), coord.RelayMerger(2), coord.HorizontalBus(46), chip2, coord.HorizontalBus(48), coord.VerticalBus(7)),
	)
	assert.True(t, want.Equal(tr), "got\n%v", tr)

	// the sending bus of a relay merger can not turn onto a vertical bus
	tr = tree(t,
		route(chip1, coord.HorizontalBus(46), coord.VerticalBus(8)),
		route(chip1, coord.HorizontalBus(46), chip2, coord.HorizontalBus(48)),
	)
	before := tr.Clone()
	requireGrammar(t, tr.Prepend(route(chip1, coord.RelayMerger(2)), hwroute.Extend))
	assert.True(t, before.Equal(tr))
}

func TestRouteTree_Walk(t *testing.T) {
	tr := tree(t, fanOut()...)
	var ends, nodes int
	err := tr.Walk(func(depth int, path hwroute.Route, head hwroute.Route, end bool) error {
		nodes++
		if end {
			ends++
		}
		if depth == 0 {
			assert.True(t, path.Equal(head))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, tr.Len(), ends)
	assert.True(t, nodes > 1)

	stop := errors.New("stop")
	n := 0
	err = tr.Walk(func(int, hwroute.Route, hwroute.Route, bool) error {
		n++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, n)
}

func TestRouteTree_String(t *testing.T) {
	tr := tree(t,
		route(chip1, coord.HorizontalBus(48), coord.VerticalBus(39)),
		route(chip1, coord.HorizontalBus(48), coord.VerticalBus(7)),
		route(chip1, coord.HorizontalBus(48)),
	)
	want := "chip(5,5) hbus(48) $\n" +
		"  chip(5,5) vbus(7)\n" +
		"  chip(5,5) vbus(39)\n"
	assert.Equal(t, want, tr.String())
}

func TestBuild(t *testing.T) {
	routes := fanOut()
	want := tree(t, routes...)
	for _, w := range []int{0, 1, 2, 3, len(routes), 2 * len(routes)} {
		t.Run(fmt.Sprint(w), func(t *testing.T) {
			got, err := hwroute.Build(routes, w)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}

	got, err := hwroute.Build(nil, 4)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	_, err = hwroute.Build(append(routes, route(chip2, coord.HorizontalBus(48))), 2)
	assert.Equal(t, hwroute.ErrDisjointRoute, errors.Cause(err))
}
