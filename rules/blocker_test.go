package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockerSpawnsOnFoodAhead(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}}, Right, normalFood(10, 10), 0.1)

	e.Tick()
	f := e.Frame()
	require.NotNil(t, f.Blocker)
	require.Equal(t, Point{X: 10, Y: 10}, f.Blocker.Position)
	require.False(t, f.Blocker.Active)
	require.Equal(t, TickPeriod, f.Blocker.SpawnedAt)
	require.Equal(t, MessageTrapSpawned, f.Message)
	require.True(t, f.Shake)
	require.Equal(t, Point{X: 6, Y: 10}, f.Snake.Head())
	require.Equal(t, 1, e.schedule.len())
}

func TestBlockerSpawnConditions(t *testing.T) {
	tests := []struct {
		name  string
		head  Point
		dir   Direction
		food  Point
		roll  float64
		spawn bool
	}{
		{"ahead", Point{X: 5, Y: 10}, Right, Point{X: 10, Y: 10}, 0.1, true},
		{"ahead vertical", Point{X: 4, Y: 15}, Up, Point{X: 4, Y: 6}, 0.44, true},
		{"roll too high", Point{X: 5, Y: 10}, Right, Point{X: 10, Y: 10}, 0.45, false},
		{"behind", Point{X: 10, Y: 10}, Right, Point{X: 5, Y: 10}, 0, false},
		{"not aligned", Point{X: 5, Y: 10}, Right, Point{X: 10, Y: 11}, 0, false},
		{"too close", Point{X: 8, Y: 10}, Right, Point{X: 10, Y: 10}, 0, false},
		{"too far", Point{X: 0, Y: 10}, Right, Point{X: 10, Y: 10}, 0, false},
		{"closest", Point{X: 7, Y: 10}, Right, Point{X: 10, Y: 10}, 0, true},
		{"furthest", Point{X: 1, Y: 10}, Right, Point{X: 10, Y: 10}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(Snake{tt.head}, tt.dir, Food{Position: tt.food, Type: FoodNormal}, tt.roll)
			e.maybeSpawnBlocker(tt.head)
			require.Equal(t, tt.spawn, e.blocker != nil)
		})
	}
}

func TestBlockerOnlyOneAtATime(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}}, Right, normalFood(10, 10), 0.1, 0.1)
	e.blocker = &Blocker{ID: 9, Position: Point{X: 2, Y: 2}}
	e.maybeSpawnBlocker(e.snake.Head())
	require.Equal(t, uint64(9), e.blocker.ID)
}

func TestBlockerLifecycle(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}}, Right, normalFood(10, 10), 0.1)

	e.Tick()
	require.NotNil(t, e.blocker)
	require.True(t, e.SubmitDirection(Down))

	e.Tick()
	e.Tick()
	require.False(t, e.blocker.Active, "armed early")

	// armed on turn 4, 300ms after spawning, aimed at the head as it was then
	e.Tick()
	b := e.Frame().Blocker
	require.NotNil(t, b)
	require.True(t, b.Active)
	require.Equal(t, 4*TickPeriod, b.ArmedAt)
	require.Equal(t, Direction{X: -1, Y: 1}, b.Velocity)
	require.Equal(t, Point{X: 9, Y: 11}, b.Position)
	require.Equal(t, Point{X: 6, Y: 13}, e.snake.Head())
	require.Nil(t, e.armEvent)
	require.NotNil(t, e.expireEvent)

	// an armed blocker always leaves the board before its lifetime is up, so
	// drive the clock directly to reach the timeout
	e.turn = 43
	e.processEvents()
	require.NotNil(t, e.blocker)

	e.turn = 44
	e.processEvents()
	require.Nil(t, e.blocker)
	require.Equal(t, 0, e.schedule.len())
}

func TestSnakeRunsIntoArmedBlocker(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}}, Right, normalFood(10, 10), 0.1)
	for i := 0; i < 4; i++ {
		e.Tick()
	}

	f := e.Frame()
	require.True(t, f.GameOver)
	require.Equal(t, &Death{Turn: 4, Cause: DeathCauseBlockerCollision}, f.Death)
	require.Equal(t, MessageBonk, f.Message)
	require.Equal(t, MoodDizzy, f.Mood)
	require.Equal(t, Point{X: 9, Y: 10}, f.Blocker.Position)
	require.Equal(t, Point{X: 8, Y: 10}, f.Snake.Head())
}

func TestBlockerCrushesHead(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}, {X: 4, Y: 10}}, Right, normalFood(0, 0))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 5, Y: 9}, Active: true, Velocity: Down}

	e.Tick()
	f := e.Frame()
	require.True(t, f.GameOver)
	require.Equal(t, DeathCauseBlockerCrush, f.Death.Cause)
	require.Equal(t, MessageCrushed, f.Message)
	require.Equal(t, MoodDizzy, f.Mood)
	require.Equal(t, Point{X: 5, Y: 10}, f.Snake.Head(), "snake must not move")
}

func TestBlockerSmashesBody(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}, {X: 4, Y: 10}, {X: 3, Y: 10}}, Right, normalFood(0, 0))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 4, Y: 9}, Active: true, Velocity: Down}

	e.Tick()
	f := e.Frame()
	require.True(t, f.GameOver)
	require.Equal(t, DeathCauseBlockerCrush, f.Death.Cause)
	require.Equal(t, MessageSmashed, f.Message)
}

func TestBlockerLeavesBoard(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 10}}, Right, normalFood(0, 19))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 0, Y: 5}, Active: true, Velocity: Left}
	e.expireEvent = e.schedule.add(BlockerLifetime, eventExpireBlocker, 1)

	e.Tick()
	require.Nil(t, e.blocker)
	require.Nil(t, e.expireEvent)
	require.Equal(t, 0, e.schedule.len())
	require.False(t, e.GameOver())
	require.Equal(t, Point{X: 6, Y: 10}, e.snake.Head())
}

func TestBlockerDestroysFood(t *testing.T) {
	e := newTestEngine(Snake{{X: 5, Y: 5}}, Right, normalFood(15, 4))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 14, Y: 4}, Active: true, Velocity: Right}

	e.Tick()
	require.Equal(t, Point{X: 15, Y: 4}, e.blocker.Position)
	require.Equal(t, Point{X: 0, Y: 0}, e.food.Position)
	require.False(t, e.GameOver())
}

func TestBlockerEvaded(t *testing.T) {
	e := newTestEngine(Snake{{X: 1, Y: 10}}, Left, normalFood(15, 15))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 10, Y: 10}}
	e.armEvent = e.schedule.add(BlockerArmDelay, eventArmBlocker, 1)

	e.Tick()
	require.Nil(t, e.blocker)
	require.Equal(t, 0, e.schedule.len())
}

func TestBlockerNotEvadedWhenClose(t *testing.T) {
	e := newTestEngine(Snake{{X: 3, Y: 10}}, Left, normalFood(15, 15))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 10, Y: 10}}

	e.Tick()
	require.NotNil(t, e.blocker)
}

func TestSnakeEatsUnderUnarmedBlocker(t *testing.T) {
	e := newTestEngine(Snake{{X: 9, Y: 10}}, Right, normalFood(10, 10))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 10, Y: 10}}

	e.Tick()
	require.False(t, e.GameOver())
	require.Equal(t, 1, e.score)
	require.NotNil(t, e.blocker)
	require.NotEqual(t, e.blocker.Position, e.food.Position)
}

func TestArmBlockerOnHeadUsesHeading(t *testing.T) {
	e := newTestEngine(Snake{{X: 10, Y: 10}}, Down, normalFood(0, 0))
	e.blocker = &Blocker{ID: 1, Position: Point{X: 10, Y: 10}}

	e.armBlocker(1)
	require.True(t, e.blocker.Active)
	require.Equal(t, Down, e.blocker.Velocity)
}

func TestStaleBlockerEventIgnored(t *testing.T) {
	e := newTestEngine(Snake{{X: 10, Y: 10}}, Right, normalFood(0, 0))
	e.blocker = &Blocker{ID: 2, Position: Point{X: 3, Y: 3}}
	e.armEvent = e.schedule.add(BlockerArmDelay, eventArmBlocker, 2)
	e.schedule.add(0, eventArmBlocker, 1)
	e.schedule.add(0, eventExpireBlocker, 1)

	e.processEvents()
	require.NotNil(t, e.blocker)
	require.False(t, e.blocker.Active)
	require.NotNil(t, e.armEvent)
}
