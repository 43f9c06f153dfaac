package worker

import "github.com/trollsnake/engine/rules"

// Pilot steers a headless game. Next is asked for an input before every
// tick; a zero Direction means no input.
type Pilot interface {
	Next(f *rules.Frame) rules.Direction
}

var headings = []rules.Direction{rules.Up, rules.Right, rules.Down, rules.Left}

// RandomPilot turns at random.
type RandomPilot struct {
	Rand rules.Rand
	// TurnChance is the chance of asking for a new heading on a tick.
	TurnChance float64
}

// Next implements Pilot.
func (p *RandomPilot) Next(f *rules.Frame) rules.Direction {
	if p.Rand.Float64() >= p.TurnChance {
		return rules.Direction{}
	}
	return headings[p.Rand.Intn(len(headings))]
}

// FoodPilot heads greedily for the food while refusing moves that would end
// the game on the next tick. It keeps its heading on ties and, when every
// move is fatal, gives no input at all.
type FoodPilot struct{}

// Next implements Pilot.
func (FoodPilot) Next(f *rules.Frame) rules.Direction {
	if f.GameOver || len(f.Snake) == 0 {
		return rules.Direction{}
	}
	head := f.Snake.Head()

	best := rules.Direction{}
	bestDist := -1
	for _, d := range candidates(f.Direction) {
		next := head.Add(d)
		if !safe(next, f) {
			continue
		}
		if dist := next.Distance(f.Food.Position); bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if best.IsZero() || best == f.Direction {
		return rules.Direction{}
	}
	if f.ReverseControls {
		return best.Negate()
	}
	return best
}

// candidates lists the headings reachable from current, current first.
func candidates(current rules.Direction) []rules.Direction {
	out := []rules.Direction{current}
	for _, d := range headings {
		if d == current || d.IsOpposite(current) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func safe(p rules.Point, f *rules.Frame) bool {
	if !p.InBounds() || f.Snake.Contains(p) {
		return false
	}
	if b := f.Blocker; b != nil && b.Active {
		if p.Equal(b.Position) || p.Equal(b.Position.Add(b.Velocity)) {
			return false
		}
	}
	return true
}
