package worker

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

func TestRunner_CompletesGame(t *testing.T) {
	store := controller.InMemStore()
	completed := counterValue(t, gamesTotal.WithLabelValues(string(rules.GameStatusComplete)))

	game, err := Runner(context.Background(), store, straightPilot{}, 7, 1000)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, game.Status)
	require.Equal(t, int64(7), game.Seed)

	stored, err := store.GetGame(context.Background(), game.ID)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, stored.Status)

	frames := allFrames(t, store, game.ID)
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	require.True(t, last.GameOver)
	require.NotNil(t, last.Death)
	require.Equal(t, int64(len(frames)-1), last.Turn)

	require.Equal(t, completed+1,
		counterValue(t, gamesTotal.WithLabelValues(string(rules.GameStatusComplete))))
}

func TestRunner_TurnLimit(t *testing.T) {
	store := controller.InMemStore()
	game, err := Runner(context.Background(), store, straightPilot{}, 7, 3)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusStopped, game.Status)

	frames := allFrames(t, store, game.ID)
	require.Len(t, frames, 4)
	require.False(t, frames[3].GameOver)
}

func TestRunner_ContextCancelled(t *testing.T) {
	store := controller.InMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	game, err := Runner(ctx, store, straightPilot{}, 7, 100)
	require.Equal(t, context.Canceled, err)
	require.Equal(t, rules.GameStatusStopped, game.Status)
}

func TestRunner_StoreFailure(t *testing.T) {
	game, err := Runner(context.Background(), brokenStore{}, straightPilot{}, 7, 1000)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, game.Status)
}

func TestRunner_Deterministic(t *testing.T) {
	store := controller.InMemStore()
	a, err := Runner(context.Background(), store, FoodPilot{}, 42, 300)
	require.NoError(t, err)
	b, err := Runner(context.Background(), store, FoodPilot{}, 42, 300)
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, allFrames(t, store, a.ID), allFrames(t, store, b.ID))
}

func TestRunner_FoodPilotScores(t *testing.T) {
	store := controller.InMemStore()
	eaten := 0.0
	for _, ft := range []rules.FoodType{rules.FoodNormal, rules.FoodMoving, rules.FoodReverse} {
		eaten += counterValue(t, foodEatenTotal.WithLabelValues(string(ft)))
	}

	score := 0
	for seed := int64(1); seed <= 10; seed++ {
		game, err := Runner(context.Background(), store, FoodPilot{}, seed, 500)
		require.NoError(t, err)
		frames, err := store.ListGameFrames(context.Background(), game.ID, 1, -1)
		require.NoError(t, err)
		require.Len(t, frames, 1)
		score += frames[0].Score
	}
	assert.True(t, score > 0, "the food pilot should eat something")

	after := 0.0
	for _, ft := range []rules.FoodType{rules.FoodNormal, rules.FoodMoving, rules.FoodReverse} {
		after += counterValue(t, foodEatenTotal.WithLabelValues(string(ft)))
	}
	assert.Equal(t, float64(score), after-eaten)
}

func TestRunner_RandomPilot(t *testing.T) {
	store := controller.InMemStore()
	pilot := &RandomPilot{Rand: rand.New(rand.NewSource(3)), TurnChance: 0.3}
	game, err := Runner(context.Background(), store, pilot, 3, 500)
	require.NoError(t, err)
	require.Contains(t,
		[]rules.GameStatus{rules.GameStatusComplete, rules.GameStatusStopped}, game.Status)
}
