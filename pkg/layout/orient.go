package layout

// Orientation selects which way the generation axis runs in the final
// Result. Layout always happens top-down internally; the other three
// orientations are fixed linear maps applied to every point-bearing field
// so connectors stay geometrically consistent with node positions.
type Orientation string

const (
	// TopDown is the canonical orientation: generations grow downward
	// (+y), siblings spread along x. This is the default.
	TopDown Orientation = "top-down"
	// BottomUp mirrors the generation axis: ancestors appear below
	// descendants.
	BottomUp Orientation = "bottom-up"
	// LeftRight swaps the axes: generations grow rightward (+x).
	LeftRight Orientation = "left-right"
	// RightLeft swaps the axes and mirrors: generations grow leftward.
	RightLeft Orientation = "right-left"
)

// Orientations lists the valid orientation values in display order.
var Orientations = []Orientation{TopDown, BottomUp, LeftRight, RightLeft}

// Valid reports whether o is one of the four known orientations.
func (o Orientation) Valid() bool {
	switch o {
	case TopDown, BottomUp, LeftRight, RightLeft:
		return true
	}
	return false
}

// String returns the orientation's wire name.
func (o Orientation) String() string { return string(o) }

// transforms is the table of the four fixed point maps. Every
// point-bearing field of a Result goes through exactly one of these.
var transforms = map[Orientation]func(Point) Point{
	TopDown:   func(p Point) Point { return p },
	BottomUp:  func(p Point) Point { return Point{X: p.X, Y: -p.Y} },
	LeftRight: func(p Point) Point { return Point{X: p.Y, Y: p.X} },
	RightLeft: func(p Point) Point { return Point{X: -p.Y, Y: p.X} },
}

func transformFor(o Orientation) func(Point) Point {
	if tr, ok := transforms[o]; ok {
		return tr
	}
	return transforms[TopDown]
}
