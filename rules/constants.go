package rules

import "time"

// Board and clock.
const (
	// GridSize is the width and height of the board in cells.
	GridSize = 20
	// TickPeriod is how often the engine is expected to be ticked.
	TickPeriod = 100 * time.Millisecond
)

// Reverse controls.
const (
	// ReverseDuration is how many seconds reverse controls last.
	ReverseDuration = 10
	// ReverseCountdownPeriod is the interval between countdown decrements.
	ReverseCountdownPeriod = time.Second
)

// Moving bait.
const (
	// BaitTriggerDistance is the distance under which moving food reacts.
	BaitTriggerDistance = 4
	// BaitRushChance is the chance the food panics and runs at the snake
	// instead of away from it.
	BaitRushChance = 0.1
	// MaxBaitDodges caps the dodge counter of a freshly spawned moving food.
	// The counter is drawn uniformly from [1, MaxBaitDodges].
	MaxBaitDodges = 3
)

// Path blocker.
const (
	// BlockerSpawnChance is the chance a blocker spawns on a tick where the
	// snake is lined up with the food.
	BlockerSpawnChance = 0.45
	// BlockerSpawnMinDistance and BlockerSpawnMaxDistance bound (inclusive)
	// the head to food distance in which a blocker may spawn.
	BlockerSpawnMinDistance = 3
	BlockerSpawnMaxDistance = 9
	// BlockerArmDelay is the time between a spawn and the blocker starting
	// to move.
	BlockerArmDelay = 300 * time.Millisecond
	// BlockerLifetime is how long an armed blocker lives without hitting
	// anything.
	BlockerLifetime = 4000 * time.Millisecond
	// BlockerEvadeDistance is the distance past which an unarmed blocker is
	// dropped because the snake got away.
	BlockerEvadeDistance = 8
)

// Food variants. A uniform draw below NormalFoodChance is normal food, below
// NormalFoodChance+MovingFoodChance is moving food and anything above is
// reverse food.
const (
	NormalFoodChance = 0.55
	MovingFoodChance = 0.30
)

// Flavour timings.
const (
	ShakeDuration = 500 * time.Millisecond
)

// Starting layout.
var (
	StartPosition  = Point{X: 10, Y: 10}
	StartDirection = Right
)
