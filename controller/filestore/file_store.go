// Package filestore records games as append only JSON line files, one file per
// game, under a single directory.
package filestore

import (
	"context"
	"os"
	"os/user"
	"path"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// DefaultDir is where games go when no directory is given.
func DefaultDir() string {
	return path.Join(homeDir(), ".trollsnake/games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
func NewFileStore(directory string) *Store {
	if directory == "" {
		directory = DefaultDir()
	}

	return &Store{
		games:     map[string]*rules.Game{},
		frames:    map[string][]*rules.Frame{},
		writers:   map[string]writer{},
		locks:     map[string]*lock{},
		directory: directory,
	}
}

type lock struct {
	token   string
	expires time.Time
}

// Store keeps open games in memory and mirrors every change to the game's
// file. Finished games are dropped from memory and read back from disk when
// asked for.
type Store struct {
	games     map[string]*rules.Game
	frames    map[string][]*rules.Frame
	writers   map[string]writer
	locks     map[string]*lock
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *Store) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		if err := w.Close(); err != nil {
			log.WithError(err).WithField("game", id).Error("error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

// Close closes every open game file.
func (fs *Store) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for id := range fs.writers {
		fs.closeGame(id)
	}
	return nil
}

// Lock takes or refreshes the write lock on a game.
func (fs *Store) Lock(ctx context.Context, key, token string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	now := time.Now()

	l, ok := fs.locks[key]
	if ok {
		// We have a lock token, if it's expired just delete it and continue as
		// if nothing happened.
		if l.expires.Before(now) {
			delete(fs.locks, key)
		} else {
			// If the token is not expired and matched our active token, let's
			// just bump the expiration.
			if l.token == token {
				l.expires = now.Add(controller.LockExpiry)
				return l.token, nil
			}
			// If it's not our token, we should throw an error.
			return "", controller.ErrIsLocked
		}
	}
	if token == "" {
		token = controller.NewLockToken()
	}
	// Lock was expired or non-existant, create a new token.
	fs.locks[key] = &lock{
		token:   token,
		expires: now.Add(controller.LockExpiry),
	}
	return token, nil
}

// Unlock releases a lock held with token.
func (fs *Store) Unlock(ctx context.Context, key, token string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	l, ok := fs.locks[key]
	// No lock? Don't care.
	if !ok {
		return nil
	}
	// We have a lock that matches our token, even if it's expired we are safe
	// to remove it. If it's expired, remove it as well.
	if l.expires.Before(time.Now()) || l.token == token {
		delete(fs.locks, key)
		return nil
	}
	return controller.ErrIsLocked
}

// CreateGame creates the game's file and writes the game header to it.
func (fs *Store) CreateGame(ctx context.Context, g *rules.Game) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.games[g.ID]; ok {
		return controller.ErrAlreadyExists
	}

	handle, err := openFileWriter(fs.directory, g.ID, true)
	if err != nil {
		if os.IsExist(err) {
			return controller.ErrAlreadyExists
		}
		return err
	}
	fs.writers[g.ID] = handle

	clone := *g
	if err := writeGame(handle, &clone); err != nil {
		fs.closeGame(g.ID)
		return err
	}
	fs.games[g.ID] = &clone
	fs.frames[g.ID] = nil
	return nil
}

// SetGameStatus appends the new status to the game's file. A game that is no
// longer running is dropped from memory.
func (fs *Store) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, err := fs.requireGame(id)
	if err != nil {
		return err
	}
	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeStatus(handle, status); err != nil {
		return err
	}

	game.Status = status
	if status != rules.GameStatusRunning {
		fs.closeGame(id)
	}
	return nil
}

// PushGameFrame appends a frame to the game's file.
func (fs *Store) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	frames, err := fs.requireFrames(id)
	if err != nil {
		return err
	}
	if err := controller.CheckSequence(len(frames), f.Turn); err != nil {
		return err
	}

	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeFrame(handle, f); err != nil {
		return err
	}
	fs.frames[id] = append(frames, f)
	return nil
}

// ListGameFrames pages through the game's frames.
func (fs *Store) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return nil, err
	}
	frames, err := fs.requireFrames(id)
	if err != nil {
		return nil, err
	}
	return controller.PageFrames(frames, limit, offset), nil
}

// GetGame returns the game record.
func (fs *Store) GetGame(ctx context.Context, id string) (*rules.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, err := fs.requireGame(id)
	if err != nil {
		return nil, err
	}

	// Clone the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	clone := *g
	return &clone, nil
}

func (fs *Store) requireHandle(id string) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id, false)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}

func (fs *Store) requireGame(id string) (*rules.Game, error) {
	// Do nothing if game already loaded.
	if g, ok := fs.games[id]; ok {
		return g, nil
	}
	if err := fs.load(id); err != nil {
		return nil, err
	}
	return fs.games[id], nil
}

func (fs *Store) requireFrames(id string) ([]*rules.Frame, error) {
	// Do nothing if frames already loaded.
	if frames, ok := fs.frames[id]; ok {
		return frames, nil
	}
	if err := fs.load(id); err != nil {
		return nil, err
	}
	return fs.frames[id], nil
}

func (fs *Store) load(id string) error {
	archive, err := readArchive(fs.directory, id)
	if err != nil {
		return err
	}
	fs.games[id] = archive.game
	fs.frames[id] = archive.frames
	return nil
}

type gameArchive struct {
	game   *rules.Game
	frames []*rules.Frame
}

func getFilePath(directory string, id string) string {
	return path.Join(directory, id) + ".jsonl"
}
