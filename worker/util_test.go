package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// spyStore remembers the IDs of the games created through it.
type spyStore struct {
	controller.Store

	mu  sync.Mutex
	ids []string
}

func newSpyStore() *spyStore {
	return &spyStore{Store: controller.InMemStore()}
}

func (s *spyStore) CreateGame(ctx context.Context, g *rules.Game) error {
	s.mu.Lock()
	s.ids = append(s.ids, g.ID)
	s.mu.Unlock()
	return s.Store.CreateGame(ctx, g)
}

func (s *spyStore) games() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

var errBroken = errors.New("store is broken")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Lock(context.Context, string, string) (string, error) { return "", errBroken }
func (brokenStore) Unlock(context.Context, string, string) error         { return errBroken }
func (brokenStore) CreateGame(context.Context, *rules.Game) error         { return errBroken }
func (brokenStore) GetGame(context.Context, string) (*rules.Game, error) {
	return nil, errBroken
}
func (brokenStore) SetGameStatus(context.Context, string, rules.GameStatus) error {
	return errBroken
}
func (brokenStore) PushGameFrame(context.Context, string, *rules.Frame) error {
	return errBroken
}
func (brokenStore) ListGameFrames(context.Context, string, int, int) ([]*rules.Frame, error) {
	return nil, errBroken
}

// straightPilot never gives any input.
type straightPilot struct{}

func (straightPilot) Next(*rules.Frame) rules.Direction { return rules.Direction{} }

func nextFrame(t *testing.T, frames <-chan *rules.Frame) *rules.Frame {
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for a frame")
		return nil
	}
}

func waitGameOver(t *testing.T, frames <-chan *rules.Frame) *rules.Frame {
	for {
		if f := nextFrame(t, frames); f.GameOver {
			return f
		}
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func allFrames(t *testing.T, store controller.Store, id string) []*rules.Frame {
	frames, err := store.ListGameFrames(context.Background(), id, 10000, 0)
	require.NoError(t, err)
	return frames
}
