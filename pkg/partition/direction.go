package partition

// Direction names one side of a cell.
type Direction int

const (
	Left  Direction = iota // decreasing x
	Right                  // increasing x
	Lower                  // decreasing z
	Upper                  // increasing z
)

// Directions lists every direction in the order edits examine them.
var Directions = [4]Direction{Left, Right, Lower, Upper}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	}
	return "unknown"
}

// Vertical reports whether the boundary in direction d is a vertical segment.
func (d Direction) Vertical() bool { return d == Left || d == Right }

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Lower:
		return Upper
	default:
		return Lower
	}
}

// firstSide reports whether a cell bounded by a segment in direction d is
// listed on that segment's Side1.
func firstSide(d Direction) bool { return d == Right || d == Upper }
