package rules

// Snake is the list of cells the snake occupies, head first.
type Snake []Point

// Head returns the first point in the body
func (s Snake) Head() Point {
	return s[0]
}

// Tail returns the last point in the body
func (s Snake) Tail() Point {
	return s[len(s)-1]
}

// Contains reports whether any segment sits on p.
func (s Snake) Contains(p Point) bool {
	for _, b := range s {
		if b.Equal(p) {
			return true
		}
	}
	return false
}

// Move pushes a new head onto the snake. Move does not remove the end point of
// the snake, that is done once we know whether it ate.
func (s Snake) Move(head Point) Snake {
	next := make(Snake, 0, len(s)+1)
	next = append(next, head)
	return append(next, s...)
}

// Shrink drops the tail.
func (s Snake) Shrink() Snake {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// Clone returns a copy that does not share memory with s.
func (s Snake) Clone() Snake {
	c := make(Snake, len(s))
	copy(c, s)
	return c
}
