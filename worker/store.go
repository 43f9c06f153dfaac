package worker

import (
	"context"
	"time"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// finishTimeout bounds the writes made when a game ends. They run on a fresh
// context since the caller's may already be cancelled.
const finishTimeout = 2 * time.Second

// recording is one game being written to a store. Recording is best effort:
// any store failure is logged and the game keeps running, but no more frames
// are written for it.
type recording struct {
	store controller.Store
	game  *rules.Game
	token string

	cancel  context.CancelFunc
	created bool
	broken  bool
	done    bool
}

// openRecording creates the game record, takes its lock and writes the first
// frame. When heartbeat is positive the lock is refreshed on that interval
// until the recording is finished.
func openRecording(
	ctx context.Context, store controller.Store, seed int64,
	heartbeat time.Duration, first *rules.Frame) *recording {
	r := &recording{
		store: store,
		game: &rules.Game{
			ID:      uuid.NewV4().String(),
			Status:  rules.GameStatusRunning,
			Seed:    seed,
			Width:   rules.GridSize,
			Height:  rules.GridSize,
			Created: time.Now(),
		},
		cancel: func() {},
	}
	logger := log.WithField("game", r.game.ID)

	if err := store.CreateGame(ctx, r.game); err != nil {
		logger.WithError(err).Error("unable to create game, not recording")
		r.broken = true
		return r
	}
	r.created = true

	token, err := store.Lock(ctx, r.game.ID, "")
	if err != nil {
		logger.WithError(err).Error("unable to lock game, not recording")
		r.broken = true
		return r
	}
	r.token = token
	logger.WithField("token", token).Debug("acquired lock")

	if heartbeat > 0 {
		hctx, cancel := context.WithCancel(context.Background())
		exited := make(chan struct{})
		go func() {
			defer close(exited)
			r.hold(hctx, heartbeat)
		}()
		// The heartbeat must be gone before the lock is released or it could
		// take the lock again.
		r.cancel = func() {
			cancel()
			<-exited
		}
	}

	r.push(ctx, first)
	return r
}

// hold refreshes the lock every interval until ctx is done.
func (r *recording) hold(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if _, err := r.store.Lock(ctx, r.game.ID, r.token); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WithError(err).
					WithField("game", r.game.ID).
					Warn("lock expired during heartbeat")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// push writes a frame. It is a no-op once the recording has failed.
func (r *recording) push(ctx context.Context, f *rules.Frame) {
	if r.broken || r.done {
		return
	}
	if err := r.store.PushGameFrame(ctx, r.game.ID, f); err != nil {
		log.WithError(err).
			WithFields(log.Fields{
				"game": r.game.ID,
				"turn": f.Turn,
			}).
			Error("unable to record frame, not recording")
		r.broken = true
	}
}

// finish records the final status and releases the lock. Only the first
// call has any effect.
func (r *recording) finish(status rules.GameStatus, last *rules.Frame) {
	if r.done {
		return
	}
	r.done = true
	r.cancel()
	r.game.Status = status
	observeGame(status, last)

	logger := log.WithFields(log.Fields{
		"game":   r.game.ID,
		"status": status,
		"turn":   last.Turn,
		"score":  last.Score,
	})
	logger.Info("game finished")

	if !r.created {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()
	if err := r.store.SetGameStatus(ctx, r.game.ID, status); err != nil {
		logger.WithError(err).Error("unable to set game status")
	}
	if r.token == "" {
		return
	}
	if err := r.store.Unlock(ctx, r.game.ID, r.token); err != nil {
		logger.WithError(err).Warn("unlock failed")
	}
}
