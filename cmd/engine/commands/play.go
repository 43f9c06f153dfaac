package commands

import (
	"context"
	"io/ioutil"
	"time"

	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trollsnake/engine/rules"
	"github.com/trollsnake/engine/worker"
)

var seed int64

func init() {
	playCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the game, 0 picks one from the clock")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays troll snake in the terminal",
	Run: func(*cobra.Command, []string) {
		playGame()
	},
}

// keyAction is what a key press asks the player loop to do.
type keyAction int

const (
	keyNone keyAction = iota
	keyMove
	keyReset
	keyQuit
)

// readKey maps a terminal key press to a player action.
func readKey(ev termbox.Event) (keyAction, rules.Direction) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return keyMove, rules.Up
	case termbox.KeyArrowDown:
		return keyMove, rules.Down
	case termbox.KeyArrowLeft:
		return keyMove, rules.Left
	case termbox.KeyArrowRight:
		return keyMove, rules.Right
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return keyQuit, rules.Direction{}
	}
	switch ev.Ch {
	case 'w', 'W':
		return keyMove, rules.Up
	case 's', 'S':
		return keyMove, rules.Down
	case 'a', 'A':
		return keyMove, rules.Left
	case 'd', 'D':
		return keyMove, rules.Right
	case 'r', 'R':
		return keyReset, rules.Direction{}
	case 'q', 'Q':
		return keyQuit, rules.Direction{}
	}
	return keyNone, rules.Direction{}
}

func playGame() {
	if logFile == "" {
		// Anything written to stderr would tear up the board.
		log.SetOutput(ioutil.Discard)
	}

	store, closeStore := openStore()
	defer closeStore()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := worker.New(store, seed)
	frames := make(chan *rules.Frame, 1)
	w.OnFrame = func(f *rules.Frame) {
		// Only the latest frame matters to the screen.
		select {
		case <-frames:
		default:
		}
		frames <- f
	}

	if err := termbox.Init(); err != nil {
		log.WithError(err).Fatal("unable to start terminal")
	}
	defer termbox.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	eventQueue := setupEventQueue()
	for {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			action, d := readKey(ev)
			switch action {
			case keyMove:
				w.Submit(d)
			case keyReset:
				w.Reset()
			case keyQuit:
				return
			}
		case f := <-frames:
			if err := render("Troll Snake", f); err != nil {
				log.WithError(err).Error("unable to render frame")
			}
		}
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
