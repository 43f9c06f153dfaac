package rules

import "fmt"

// Point is a single cell on the board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equal checks if 2 points are the same x,y coordinate
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add returns the point one step away in the given direction.
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// InBounds reports whether the point lies on the board.
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Clamp pulls the point back onto the board.
func (p Point) Clamp() Point {
	return Point{X: clamp(p.X, 0, GridSize-1), Y: clamp(p.Y, 0, GridSize-1)}
}

// Distance is the manhattan distance between two points.
func (p Point) Distance(other Point) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is a unit step on one axis. The zero value means "not moving" and
// is only ever seen on a blocker that has not been armed yet.
type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// The four directions a snake can head in. Y grows downwards.
var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// Negate flips the direction on both axes.
func (d Direction) Negate() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// IsOpposite reports whether d points exactly the other way from other.
func (d Direction) IsOpposite(other Direction) bool {
	return d == other.Negate()
}

// IsUnit reports whether d is one of Up, Down, Left or Right.
func (d Direction) IsUnit() bool {
	return abs(d.X)+abs(d.Y) == 1
}

// IsZero reports whether the direction has no movement.
func (d Direction) IsZero() bool {
	return d.X == 0 && d.Y == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("(%d, %d)", d.X, d.Y)
}

// towards returns the sign vector pointing from p to target.
func towards(p, target Point) Direction {
	return Direction{X: sign(target.X - p.X), Y: sign(target.Y - p.Y)}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
