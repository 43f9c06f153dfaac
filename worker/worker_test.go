package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/rules"
)

func startWorker(w *Worker) (<-chan *rules.Frame, context.CancelFunc, <-chan struct{}) {
	frames := make(chan *rules.Frame, 1000)
	w.OnFrame = func(f *rules.Frame) { frames <- f }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return frames, cancel, done
}

func TestWorker_RecordsGame(t *testing.T) {
	store := newSpyStore()
	w := New(store, 1)
	w.TickInterval = time.Millisecond

	frames, cancel, done := startWorker(w)
	first := nextFrame(t, frames)
	require.Equal(t, int64(0), first.Turn)
	last := waitGameOver(t, frames)
	cancel()
	<-done

	ids := store.games()
	require.Len(t, ids, 1)

	game, err := store.GetGame(context.Background(), ids[0])
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, game.Status)
	require.Equal(t, rules.GridSize, game.Width)

	recorded := allFrames(t, store, ids[0])
	require.Len(t, recorded, int(last.Turn)+1)
	for i, f := range recorded {
		require.Equal(t, int64(i), f.Turn)
	}
	require.Equal(t, last, recorded[len(recorded)-1])
}

func TestWorker_ResetStartsNewGame(t *testing.T) {
	store := newSpyStore()
	w := New(store, 1)
	w.TickInterval = time.Hour

	frames, cancel, done := startWorker(w)
	nextFrame(t, frames)
	w.Reset()
	f := nextFrame(t, frames)
	require.Equal(t, int64(0), f.Turn)
	cancel()
	<-done

	ids := store.games()
	require.Len(t, ids, 2)
	for _, id := range ids {
		game, err := store.GetGame(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, rules.GameStatusStopped, game.Status)
		assert.Len(t, allFrames(t, store, id), 1)
	}

	a, _ := store.GetGame(context.Background(), ids[0])
	b, _ := store.GetGame(context.Background(), ids[1])
	assert.NotEqual(t, a.Seed, b.Seed)
}

func TestWorker_ReleasesLock(t *testing.T) {
	store := newSpyStore()
	w := New(store, 1)
	w.TickInterval = time.Hour
	w.HeartbeatInterval = time.Millisecond

	frames, cancel, done := startWorker(w)
	nextFrame(t, frames)
	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	ids := store.games()
	require.Len(t, ids, 1)
	_, err := store.Lock(context.Background(), ids[0], "")
	require.NoError(t, err, "lock should be free once the game is stopped")
}

func TestWorker_Submit(t *testing.T) {
	w := New(newSpyStore(), 1)
	w.TickInterval = 50 * time.Millisecond

	frames, cancel, done := startWorker(w)
	defer func() {
		cancel()
		<-done
	}()

	nextFrame(t, frames)
	w.Submit(rules.Down)
	f := nextFrame(t, frames)
	require.Equal(t, int64(1), f.Turn)
	require.Equal(t, rules.Down, f.Direction)
}

func TestWorker_SubmitDropsWhenFull(t *testing.T) {
	w := New(newSpyStore(), 1)
	for i := 0; i < 100; i++ {
		w.Submit(rules.Up)
	}
	require.Len(t, w.inputs, cap(w.inputs))

	w.Reset()
	w.Reset()
	require.Len(t, w.resets, 1)
}

func TestWorker_KeepsPlayingWhenStoreFails(t *testing.T) {
	w := New(brokenStore{}, 1)
	w.TickInterval = time.Millisecond

	frames, cancel, done := startWorker(w)
	last := waitGameOver(t, frames)
	cancel()
	<-done

	require.NotNil(t, last.Death)
	require.True(t, last.Turn > 0)
}
