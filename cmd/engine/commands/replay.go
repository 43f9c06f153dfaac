package commands

import (
	"context"
	"errors"
	"io/ioutil"
	"time"

	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

const replayPageSize = 100

var replaySpeed = rules.TickPeriod

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().DurationVar(&replaySpeed, "speed", replaySpeed, "time between frames")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays a recorded game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		store, closeStore := openStore()
		defer closeStore()
		replayGame(store)
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *rules.Frame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *rules.Frame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

func loadGame(ctx context.Context, store controller.Store) (*rules.Game, *frameHolder, error) {
	game, err := store.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	frames := newFrameHolder()
	go func() {
		if err := loadFrames(ctx, store, gameID, replayPageSize, frames); err != nil {
			log.WithError(err).WithField("game", gameID).Error("unable to load frames")
		}
	}()
	return game, frames, nil
}

func replayGame(store controller.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, frames, err := loadGame(ctx, store)
	if err != nil {
		log.WithError(err).WithField("game", gameID).Fatal("unable to load game")
	}

	select {
	case <-frames.initialFrame():
	case <-time.After(5 * time.Second):
		log.WithField("game", gameID).Fatal("unable to find initial frame for game")
	}

	if logFile == "" {
		log.SetOutput(ioutil.Discard)
	}
	if err = termbox.Init(); err != nil {
		log.WithError(err).Fatal("unable to start terminal")
	}
	defer termbox.Close()

	title := "Replay " + game.ID
	eventQueue := setupEventQueue()
	currentFrame := frames.get(0)
	if err = render(title, currentFrame); err != nil {
		log.WithError(err).Error("unable to render frame")
	}

	cycle := time.NewTicker(replaySpeed)
	defer cycle.Stop()
	frameIndex := 0
	paused := false
	done := false

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch ev.Key {
			case termbox.KeyEsc:
				return
			case termbox.KeySpace:
				paused = !paused
			case termbox.KeyArrowLeft:
				paused = true
				frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
			case termbox.KeyArrowRight:
				paused = true
				var next *rules.Frame
				if frameIndex, next, done = moveFrameForwards(frameIndex, frames); !done {
					currentFrame = next
				}
			default:
				if ev.Ch == 'q' {
					return
				}
				continue
			}
		case <-cycle.C:
			if paused {
				continue
			}
			var next *rules.Frame
			if frameIndex, next, done = moveFrameForwards(frameIndex, frames); !done {
				currentFrame = next
			}
		}
		if err = render(title, currentFrame); err != nil {
			log.WithError(err).Error("unable to render frame")
		}
	}

	tbprint(left, top+rules.GridSize+3, defaultColor, defaultColor, "Press any key to exit...")
	if err = termbox.Flush(); err != nil {
		log.WithError(err).Error("unable to flush terminal")
	}
	<-eventQueue
}
