package commands

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trollsnake/engine/config"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
	"github.com/trollsnake/engine/worker"
	"golang.org/x/time/rate"
)

var (
	games    int
	maxTurns int64
)

func init() {
	loadTestCmd.Flags().IntVarP(&games, "num-games", "n", 10, "number of games to run for the load test")
	loadTestCmd.Flags().Int64Var(&maxTurns, "max-turns", 2000, "stop a game after this many turns")
	loadTestCmd.Flags().Int64Var(&seed, "seed", 0, "seed of the first game, later games count up from it; 0 picks one from the clock")
}

type statusUpdate struct {
	id     string
	status rules.GameStatus
	score  int
	turns  int64
	err    error
}

var loadTestCmd = &cobra.Command{
	Use:   "load-test",
	Short: "run many headless games against the store",
	Run: func(*cobra.Command, []string) {
		store, closeStore := openStore()
		defer closeStore()

		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		start := time.Now()
		updates := runLoadTest(context.Background(), store, games, seed, maxTurns,
			rate.NewLimiter(config.StartRate, config.StartBurst))

		statuses := map[rules.GameStatus]int{}
		total := 0
		for s := range updates {
			if s.err != nil {
				log.WithError(s.err).WithField("id", s.id).Error("game failed")
				statuses[rules.GameStatusError]++
				continue
			}
			log.WithFields(log.Fields{
				"id":     s.id,
				"status": s.status,
				"score":  s.score,
				"turns":  s.turns,
			}).Info("Game Status")
			statuses[s.status]++
			total += s.score
		}

		fields := log.Fields{
			"elapsed": time.Since(start),
			"games":   games,
			"score":   total,
		}
		for status, n := range statuses {
			fields[string(status)] = n
		}
		log.WithFields(fields).Info("All games complete")
	},
}

// runLoadTest plays n games concurrently, starting them no faster than the
// limiter allows. Game i is played with seed+i. The channel is closed once
// every game has reported.
func runLoadTest(
	ctx context.Context, store controller.Store, n int, seed, maxTurns int64,
	limiter *rate.Limiter) <-chan statusUpdate {
	updates := make(chan statusUpdate, n)
	var wg sync.WaitGroup
	go func() {
		defer close(updates)
		for i := 0; i < n; i++ {
			if err := limiter.Wait(ctx); err != nil {
				updates <- statusUpdate{err: err}
				continue
			}
			wg.Add(1)
			go func(gameSeed int64) {
				defer wg.Done()
				updates <- playHeadless(ctx, store, gameSeed, maxTurns)
			}(seed + int64(i))
		}
		wg.Wait()
	}()
	return updates
}

func playHeadless(ctx context.Context, store controller.Store, gameSeed, maxTurns int64) statusUpdate {
	game, err := worker.Runner(ctx, store, worker.FoodPilot{}, gameSeed, maxTurns)
	if err != nil {
		return statusUpdate{err: err}
	}
	s := statusUpdate{id: game.ID, status: game.Status}
	frames, err := store.ListGameFrames(ctx, game.ID, 1, -1)
	if err == nil && len(frames) > 0 {
		s.score = frames[0].Score
		s.turns = frames[0].Turn
	}
	return s
}
