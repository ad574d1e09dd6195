package hwroute_test

import (
	"fmt"

	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
)

func ExampleRoute_AppendOn() {
	var r hwroute.Route
	a, b := coord.Chip{X: 5, Y: 5}, coord.Chip{X: 6, Y: 5}

	r.AppendOn(a, coord.OutputMerger(2))
	r.Append(coord.RelayMerger(2))
	r.Append(coord.HorizontalBus(46))
	if err := r.Append(coord.VerticalBus(8)); err != nil {
		fmt.Println(err)
	}
	r.AppendOn(b, coord.HorizontalBus(48))
	r.Append(coord.VerticalBus(39))
	r.Append(coord.DriverSlot{Side: coord.Left, Row: 99})
	r.Append(coord.Terminal{Column: 5, Row: 0})

	src, _ := r.SourceChip()
	dst, _ := r.TargetChip()
	fmt.Println(r.Len(), src, dst)
	fmt.Println(r)

	// Output:
	// invalid route: not a successor of hbus(46): vbus(8) at index 4
	// 9 chip(5,5) chip(6,5)
	// chip(5,5) out(2) relay(2) hbus(46) chip(6,5) hbus(48) vbus(39) driver(left,99) term(5,0)
}

func ExampleRouteTree() {
	t := hwroute.NewTree()
	for _, s := range []string{
		"chip(5,5) hbus(48) vbus(39) hbus(49) vbus(7)",
		"chip(5,5) hbus(48) vbus(39)",
		"chip(5,5) hbus(48) vbus(39) driver(left,3)",
	} {
		if err := t.Add(hwroute.MustParseRoute(s)); err != nil {
			fmt.Println(err)
			return
		}
	}
	fmt.Print(t)
	fmt.Println(t.Len(), "routes")

	// Output:
	// chip(5,5) hbus(48) vbus(39) $
	//   chip(5,5) hbus(49) vbus(7)
	//   chip(5,5) driver(left,3)
	// 3 routes
}
