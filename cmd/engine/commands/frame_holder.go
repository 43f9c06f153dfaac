package commands

import (
	"context"
	"sync"

	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// frameHolder collects frames as they are paged in from the store so a replay
// can start before the whole game is loaded.
type frameHolder struct {
	sync.RWMutex
	frames []*rules.Frame
	ffc    chan struct{}
}

func newFrameHolder() *frameHolder {
	return &frameHolder{ffc: make(chan struct{})}
}

func (fh *frameHolder) append(frames ...*rules.Frame) {
	fh.Lock()
	defer fh.Unlock()

	if len(fh.frames) == 0 && len(frames) > 0 {
		close(fh.ffc)
	}
	fh.frames = append(fh.frames, frames...)
}

func (fh *frameHolder) get(index int) *rules.Frame {
	fh.RLock()
	defer fh.RUnlock()

	if index < 0 || index >= len(fh.frames) {
		return nil
	}

	return fh.frames[index]
}

// initialFrame is closed once the first frame is held.
func (fh *frameHolder) initialFrame() <-chan struct{} {
	return fh.ffc
}

func (fh *frameHolder) count() int {
	fh.RLock()
	defer fh.RUnlock()

	return len(fh.frames)
}

// loadFrames pages every frame of a game into fh.
func loadFrames(
	ctx context.Context, store controller.Store, id string,
	pageSize int, fh *frameHolder) error {
	for offset := 0; ; offset += pageSize {
		page, err := store.ListGameFrames(ctx, id, pageSize, offset)
		if err != nil {
			return err
		}
		fh.append(page...)
		if len(page) < pageSize {
			return nil
		}
	}
}
