package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of a recorded game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		store, closeStore := openStore()
		defer closeStore()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sr, err := getStatus(ctx, store, gameID)
		if err != nil {
			log.WithError(err).WithField("game", gameID).Fatal("unable to get game status")
		}
		dumpStatus(os.Stdout, sr)
	},
}

var (
	gameID string
)

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
}

// statusResponse is a recorded game with its last frame.
type statusResponse struct {
	Game      *rules.Game
	LastFrame *rules.Frame
}

func getStatus(ctx context.Context, store controller.Store, id string) (*statusResponse, error) {
	game, err := store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	frames, err := store.ListGameFrames(ctx, id, 1, -1)
	if err != nil {
		return nil, err
	}

	sr := &statusResponse{Game: game}
	if len(frames) > 0 {
		sr.LastFrame = frames[0]
	}
	return sr, nil
}

func dumpStatus(w io.Writer, sr *statusResponse) {
	spew.Fdump(w, sr)
}
