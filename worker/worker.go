// Package worker drives the rules engine. A Worker runs a game in real time
// for a player, a Runner plays one headless to completion. Both record every
// frame they produce to a controller.Store.
package worker

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// Worker owns an engine and ticks it on a wall clock. Inputs and resets from
// other goroutines are passed in over channels, so only the Run loop ever
// touches the engine.
type Worker struct {
	Store             controller.Store
	TickInterval      time.Duration
	HeartbeatInterval time.Duration
	// OnFrame is called from the Run loop with every new frame, including
	// the first frame of each game.
	OnFrame func(*rules.Frame)

	seeds  *rand.Rand
	inputs chan rules.Direction
	resets chan struct{}
}

// New returns a worker recording to store. Each game gets its own seed drawn
// from seed.
func New(store controller.Store, seed int64) *Worker {
	return &Worker{
		Store:             store,
		TickInterval:      rules.TickPeriod,
		HeartbeatInterval: controller.LockExpiry / 2,
		seeds:             rand.New(rand.NewSource(seed)),
		inputs:            make(chan rules.Direction, 8),
		resets:            make(chan struct{}, 1),
	}
}

// Submit queues a player input. Inputs beyond the queue size are dropped,
// the engine only takes one per tick anyway.
func (w *Worker) Submit(d rules.Direction) {
	select {
	case w.inputs <- d:
	default:
	}
}

// Reset asks for the current game to be abandoned and a new one started.
func (w *Worker) Reset() {
	select {
	case w.resets <- struct{}{}:
	default:
	}
}

// game is the engine and recording of the game being played.
type game struct {
	engine *rules.Engine
	rec    *recording
	last   *rules.Frame
}

func (w *Worker) open(ctx context.Context) *game {
	seed := w.seeds.Int63()
	engine := rules.NewEngine(rand.New(rand.NewSource(seed)))
	first := engine.Frame()
	g := &game{
		engine: engine,
		rec:    openRecording(ctx, w.Store, seed, w.HeartbeatInterval, first),
		last:   first,
	}
	log.WithFields(log.Fields{
		"game": g.rec.game.ID,
		"seed": seed,
	}).Info("game started")
	w.publish(first)
	return g
}

func (w *Worker) publish(f *rules.Frame) {
	if w.OnFrame != nil {
		w.OnFrame(f)
	}
}

// Run plays games until ctx is done. A finished game stays on screen until
// Reset is called.
func (w *Worker) Run(ctx context.Context) {
	g := w.open(ctx)

	t := time.NewTicker(w.TickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			g.rec.finish(rules.GameStatusStopped, g.last)
			return

		case d := <-w.inputs:
			g.engine.SubmitDirection(d)

		case <-w.resets:
			g.rec.finish(rules.GameStatusStopped, g.last)
			g = w.open(ctx)

		case <-t.C:
			if g.engine.GameOver() {
				continue
			}
			g.engine.Tick()
			f := g.engine.Frame()
			observeTick(g.last, f)
			g.rec.push(ctx, f)
			g.last = f
			w.publish(f)
			if f.GameOver {
				g.rec.finish(rules.GameStatusComplete, f)
			}
		}
	}
}
