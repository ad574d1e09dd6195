package hwtest_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
	"github.com/db47h/hwroute/hwtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chip1 = coord.Chip{X: 5, Y: 5}
	chip2 = coord.Chip{X: 6, Y: 5}
)

func TestSuccessors(t *testing.T) {
	assert.Nil(t, hwtest.Successors(hwroute.Route{}))

	r := hwroute.MustRoute(chip1, coord.OutputMerger(2))
	assert.Equal(t, []hwtest.Step{{Chip: chip1, Segment: coord.RelayMerger(2)}}, hwtest.Successors(r))

	// the sending bus, or the bus on the left through the sending repeater
	require.NoError(t, r.Append(coord.RelayMerger(2)))
	assert.ElementsMatch(t, []hwtest.Step{
		{Chip: chip1, Segment: coord.HorizontalBus(46)},
		{Chip: coord.Chip{X: 4, Y: 5}, Segment: coord.HorizontalBus(44)},
	}, hwtest.Successors(r))

	require.NoError(t, r.Append(coord.HorizontalBus(46)))
	require.NoError(t, r.AppendOn(chip2, coord.HorizontalBus(48)))
	var want []hwtest.Step
	for _, v := range []int{7, 39, 71, 103, 152, 184, 216, 248} {
		want = append(want, hwtest.Step{Chip: chip2, Segment: coord.VerticalBus(v)})
	}
	want = append(want,
		hwtest.Step{Chip: coord.Chip{X: 7, Y: 5}, Segment: coord.HorizontalBus(50)},
		hwtest.Step{Chip: chip1, Segment: coord.HorizontalBus(46)},
	)
	assert.ElementsMatch(t, want, hwtest.Successors(r))

	for _, s := range hwtest.Successors(r) {
		n := r
		require.NoError(t, n.AppendOn(s.Chip, s.Segment))
	}
	assert.Equal(t, 6, r.Len())
}

func TestSuccessors_corner(t *testing.T) {
	c := coord.Chip{X: 0, Y: 0}
	r := hwroute.MustRoute(c, coord.RelayMerger(0))
	// nothing to the west of column 0
	assert.Equal(t, []hwtest.Step{{Chip: c, Segment: coord.HorizontalBus(62)}}, hwtest.Successors(r))
}

func TestRandomRoute(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		r := hwtest.RandomRoute(rng, chip1, i%coord.MergerCount, 16)
		assert.Equal(t, -1, hwroute.FindInvalid(r.Segments()), "%v", r)
		assert.LessOrEqual(t, r.Len(), 17)
		c, err := r.SourceChip()
		require.NoError(t, err)
		assert.Equal(t, chip1, c)
		if r.Len() < 16 {
			assert.Empty(t, hwtest.Successors(r), "%v", r)
		}
	}
}

func TestCheckOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hwtest.CheckOrderIndependence(t, hwtest.RandomRoutes(rng, chip1, 3, 5, 12))
	hwtest.CheckOrderIndependence(t, hwtest.RandomRoutes(rng, chip2, 0, 12, 20))
	hwtest.CheckOrderIndependence(t, nil)
}
