package worker

import (
	"context"
	"math/rand"

	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// Runner will run an individual game to completion without waiting on a
// clock. The pilot is asked for input before every tick. A game still going
// after maxTurns ticks is stopped. It returns the game record with its final
// status, and an error only if ctx ended first.
func Runner(
	ctx context.Context, store controller.Store, pilot Pilot,
	seed int64, maxTurns int64) (*rules.Game, error) {
	engine := rules.NewEngine(rand.New(rand.NewSource(seed)))
	last := engine.Frame()
	rec := openRecording(ctx, store, seed, 0, last)

	for !engine.GameOver() {
		select {
		case <-ctx.Done():
			rec.finish(rules.GameStatusStopped, last)
			return rec.game, ctx.Err()
		default:
		}

		if engine.Turn() >= maxTurns {
			log.WithField("game", rec.game.ID).
				WithField("turn", engine.Turn()).
				Debug("turn limit reached")
			rec.finish(rules.GameStatusStopped, last)
			return rec.game, nil
		}

		if d := pilot.Next(last); !d.IsZero() {
			engine.SubmitDirection(d)
		}
		engine.Tick()

		f := engine.Frame()
		observeTick(last, f)
		rec.push(ctx, f)
		last = f
	}

	rec.finish(rules.GameStatusComplete, last)
	return rec.game, nil
}
