// Package testsuite holds the behaviour every controller.Store backend must
// share.
package testsuite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

func newGame() *rules.Game {
	return &rules.Game{
		ID:      uuid.NewV4().String(),
		Status:  rules.GameStatusRunning,
		Seed:    42,
		Width:   rules.GridSize,
		Height:  rules.GridSize,
		Created: time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Frames returns n consecutive frames starting at turn 0.
func Frames(n int) []*rules.Frame {
	frames := make([]*rules.Frame, n)
	for i := range frames {
		frames[i] = &rules.Frame{
			Turn:      int64(i),
			Snake:     rules.Snake{{X: 10 + i%5, Y: 10}, {X: 9 + i%5, Y: 10}},
			Food:      rules.Food{Position: rules.Point{X: i % rules.GridSize, Y: 3}, Type: rules.FoodNormal},
			Direction: rules.Right,
			Score:     i / 2,
			Mood:      rules.MoodNormal,
		}
	}
	frames[n-1].Blocker = &rules.Blocker{ID: 1, Position: rules.Point{X: 4, Y: 4}, Active: true, Velocity: rules.Left}
	frames[n-1].GameOver = true
	frames[n-1].Death = &rules.Death{Turn: int64(n - 1), Cause: rules.DeathCauseBlockerCrush}
	frames[n-1].Message = rules.MessageCrushed
	return frames
}

func testStoreLock(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Lock random key.
	tok, err := s.Lock(ctx, key, "")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	// Lock with valid token, no error same token returned.
	tok2, err := s.Lock(ctx, key, tok)
	require.NoError(t, err)
	require.Equal(t, tok, tok2)

	// Lock without the token is refused.
	_, err = s.Lock(ctx, key, "")
	require.Equal(t, controller.ErrIsLocked, err)

	// Unlock without valid token returns error.
	err = s.Unlock(ctx, key, "")
	require.Error(t, err)

	// Unlock with valid token no error.
	err = s.Unlock(ctx, key, tok)
	require.NoError(t, err)

	// Unlocked, anyone can take it again.
	_, err = s.Lock(ctx, key, "")
	require.NoError(t, err)

	// Unlock where lock doesn't exist returns no error.
	err = s.Unlock(ctx, key+"-missing", "")
	require.NoError(t, err)
}

func testStoreLockExpiry(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Negative expiry, will always be expired.
	controller.LockExpiry = -10 * time.Second
	defer func() { controller.LockExpiry = 1 * time.Second }()

	// Lock random key.
	tok, err := s.Lock(ctx, key, "")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	// Lock (with token) has expired.
	tok2, err := s.Lock(ctx, key, tok)
	require.NoError(t, err)
	require.Equal(t, tok, tok2)

	// Unlock (no token) has expired.
	err = s.Unlock(ctx, key, "")
	require.NoError(t, err)

	// Lock (no token) has expired.
	_, err = s.Lock(ctx, key, "")
	require.NoError(t, err)

	// Unlock (no token) has expired.
	err = s.Unlock(ctx, key, "")
	require.NoError(t, err)
}

func testStoreGames(t *testing.T, s controller.Store) {
	ctx := context.Background()
	game := newGame()

	// Create and fetch a game.
	err := s.CreateGame(ctx, game)
	require.NoError(t, err)
	g, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, game.ID, g.ID)
	require.Equal(t, rules.GameStatusRunning, g.Status)
	require.Equal(t, game.Seed, g.Seed)
	require.Equal(t, game.Width, g.Width)
	require.Equal(t, game.Height, g.Height)
	require.True(t, game.Created.Equal(g.Created))

	// Second create with the same ID.
	err = s.CreateGame(ctx, game)
	require.Equal(t, controller.ErrAlreadyExists, err)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, game.ID+"-missing")
	require.Equal(t, controller.ErrNotFound, err)
}

func testStoreGameStatus(t *testing.T, s controller.Store) {
	ctx := context.Background()
	game := newGame()

	err := s.CreateGame(ctx, game)
	require.NoError(t, err)
	err = s.PushGameFrame(ctx, game.ID, Frames(1)[0])
	require.NoError(t, err)

	err = s.SetGameStatus(ctx, game.ID, rules.GameStatusComplete)
	require.NoError(t, err)
	g, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, g.Status)

	// Frames survive a status change.
	frames, err := s.ListGameFrames(ctx, game.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	err = s.SetGameStatus(ctx, game.ID+"-missing", rules.GameStatusError)
	require.Equal(t, controller.ErrNotFound, err)
}

func testStoreGameFrames(t *testing.T, s controller.Store) {
	ctx := context.Background()
	game := newGame()
	want := Frames(5)

	// Create and fetch a game.
	err := s.CreateGame(ctx, game)
	require.NoError(t, err)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, game.ID, 10, 100)
	require.NoError(t, err)
	require.Len(t, frames, 0)

	// Read game frames, 0 offset.
	frames, err = s.ListGameFrames(ctx, game.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 0)

	// First frame must be turn 0.
	err = s.PushGameFrame(ctx, game.ID, want[1])
	require.Equal(t, controller.ErrInvalidSequence, err)

	// Push the game frames.
	for _, f := range want {
		err = s.PushGameFrame(ctx, game.ID, f)
		require.NoError(t, err)
	}

	// Gaps and repeats are refused.
	err = s.PushGameFrame(ctx, game.ID, &rules.Frame{Turn: 7})
	require.Equal(t, controller.ErrInvalidSequence, err)
	err = s.PushGameFrame(ctx, game.ID, &rules.Frame{Turn: 4})
	require.Equal(t, controller.ErrInvalidSequence, err)

	// Read the game frames.
	frames, err = s.ListGameFrames(ctx, game.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, want, frames)

	// Limit and offset.
	frames, err = s.ListGameFrames(ctx, game.ID, 2, 1)
	require.NoError(t, err)
	require.Equal(t, want[1:3], frames)

	// Negative offset, last frame.
	frames, err = s.ListGameFrames(ctx, game.ID, 1, -1)
	require.NoError(t, err)
	require.Equal(t, want[4:], frames)

	// Negative offset, last three.
	frames, err = s.ListGameFrames(ctx, game.ID, 10, -3)
	require.NoError(t, err)
	require.Equal(t, want[2:], frames)

	// Bigger limit.
	frames, err = s.ListGameFrames(ctx, game.ID, 1000000000, 0)
	require.NoError(t, err)
	require.Len(t, frames, 5)

	// Read game frames that don't exist.
	frames, err = s.ListGameFrames(ctx, game.ID+"-missing", 1, 0)
	require.Equal(t, controller.ErrNotFound, err)
	require.Len(t, frames, 0)

	// Push to a game that doesn't exist.
	err = s.PushGameFrame(ctx, game.ID+"-missing", want[0])
	require.Equal(t, controller.ErrNotFound, err)

	// Read the game frames, too high offset.
	frames, err = s.ListGameFrames(ctx, game.ID, 10, 100)
	require.NoError(t, err)
	require.Len(t, frames, 0)
}

func testStoreConcurrentWriters(t *testing.T, s controller.Store) {
	ctx := context.Background()
	game := newGame()

	err := s.CreateGame(ctx, game)
	require.NoError(t, err)

	var ok uint32 // How many got the lock.
	var wg sync.WaitGroup
	wg.Add(20)

	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			if _, errl := s.Lock(ctx, game.ID, ""); errl == nil {
				atomic.AddUint32(&ok, 1)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, uint32(1), ok)
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s controller.Store, pretest func()) {
	s = controller.InstrumentStore(s)
	t.Run("Lock", func(t *testing.T) { pretest(); testStoreLock(t, s) })
	t.Run("LockExpiry", func(t *testing.T) { pretest(); testStoreLockExpiry(t, s) })
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("GameStatus", func(t *testing.T) { pretest(); testStoreGameStatus(t, s) })
	t.Run("GameFrames", func(t *testing.T) { pretest(); testStoreGameFrames(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
}
