package rules

// stubRand replays canned values. Once they run out Float64 returns 0.99,
// which never rushes, never spawns a blocker and picks reverse food, and Intn
// returns 0, which puts new food on the first free cell scanning from (0, 0).
type stubRand struct {
	floats []float64
	ints   []int
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *stubRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

// newTestEngine builds an engine in the given position with the canned random
// values queued up for the first tick.
func newTestEngine(snake Snake, dir Direction, food Food, floats ...float64) *Engine {
	rng := &stubRand{}
	e := NewEngine(rng)
	e.snake = snake
	e.direction = dir
	e.food = food
	rng.floats = floats
	return e
}

func normalFood(x, y int) Food {
	return Food{Position: Point{X: x, Y: y}, Type: FoodNormal}
}
