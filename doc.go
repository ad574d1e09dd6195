/*
Package hwroute provides validated physical routes over the interconnect of a
wafer-scale neuromorphic system, and route trees that merge such routes
according to the physical wires they share.

A wafer is a grid of chips. On each chip, a spike source is funneled through an
output merger and its relay merger onto a horizontal bus. Horizontal and
vertical buses are connected through a sparse crossbar and continue onto the
neighbouring chips. Vertical buses feed driver slots through a driver switch,
and driver slots distribute signals to terminals.

A Route is built one segment at a time with Append, or with AppendOn when the
route starts or crosses to another chip. Steps that are not physically possible
are rejected with an *InvalidRouteError and leave the route unchanged:

	var r hwroute.Route
	r.AppendOn(coord.Chip{X: 5, Y: 5}, coord.OutputMerger(2))
	r.Append(coord.RelayMerger(2))
	r.Append(coord.HorizontalBus(46))
	// the bus driven by a relay merger can only leave the chip
	err := r.Append(coord.VerticalBus(8)) // err != nil
	r.AppendOn(coord.Chip{X: 6, Y: 5}, coord.HorizontalBus(48))

Routes also have a textual form, see ParseRoute.

A RouteTree folds routes with a common prefix into a path compressed tree. Its
shape only depends on the set of routes it holds:

	t := hwroute.NewTree()
	t.Add(r1)
	t.Add(r2)
	for _, tail := range t.Tails() {
		// ...
	}

Both types can be persisted with msgpack (github.com/vmihailenco/msgpack/v5)
or through their MarshalBinary and UnmarshalBinary methods.

Route values can be copied and used concurrently. A RouteTree must not be
modified concurrently, but its Head and Tails methods return independent
copies.
*/
package hwroute
