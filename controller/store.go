// Package controller defines where played games are recorded. A Store keeps
// the game record and the ordered list of frames the worker produced for it;
// backends live in the sub packages.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/trollsnake/engine/rules"
)

var (
	// LockExpiry is the time after which a lock will expire.
	LockExpiry = 1 * time.Second
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("controller: game not found")
	// ErrIsLocked is returned when a game is locked by someone else.
	ErrIsLocked = errors.New("controller: game is locked")
	// ErrAlreadyExists is returned when creating a game whose ID is taken.
	ErrAlreadyExists = errors.New("controller: game already exists")
	// ErrInvalidSequence is returned when a pushed frame does not follow the
	// last stored frame.
	ErrInvalidSequence = errors.New("controller: invalid frame sequence")
)

// Store is the interface to the backend store.
type Store interface {
	// Lock takes or refreshes the write lock on a game. An empty token asks
	// for a new lock; the returned token must be used for later calls.
	Lock(ctx context.Context, key, token string) (string, error)
	// Unlock releases a lock held with token.
	Unlock(ctx context.Context, key, token string) error
	CreateGame(ctx context.Context, g *rules.Game) error
	GetGame(ctx context.Context, id string) (*rules.Game, error)
	SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error
	// PushGameFrame appends a frame. The first frame of a game must be turn
	// 0 and every later frame the turn after the last one.
	PushGameFrame(ctx context.Context, id string, f *rules.Frame) error
	// ListGameFrames returns up to limit frames starting at offset. A
	// negative offset counts from the end, -1 being the last frame.
	ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error)
}

// NewLockToken returns a fresh random lock token.
func NewLockToken() string {
	return uuid.NewV4().String()
}

// PageFrames applies ListGameFrames paging to an in order list of frames.
func PageFrames(frames []*rules.Frame, limit, offset int) []*rules.Frame {
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if limit <= 0 || len(frames) == 0 || offset >= len(frames) {
		return nil
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	page := make([]*rules.Frame, limit)
	copy(page, frames[offset:offset+limit])
	return page
}

// CheckSequence reports whether a frame for turn may follow count stored
// frames.
func CheckSequence(count int, turn int64) error {
	if turn != int64(count) {
		return ErrInvalidSequence
	}
	return nil
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*rules.Game{},
		frames: map[string][]*rules.Frame{},
		locks:  map[string]*lock{},
	}
}

type lock struct {
	token   string
	expires time.Time
}

type inmem struct {
	games  map[string]*rules.Game
	frames map[string][]*rules.Frame
	locks  map[string]*lock
	lock   sync.Mutex
}

func (in *inmem) Lock(ctx context.Context, key, token string) (string, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	now := time.Now()
	l, ok := in.locks[key]
	if ok {
		if l.expires.Before(now) {
			delete(in.locks, key)
		} else if l.token == token {
			l.expires = now.Add(LockExpiry)
			return l.token, nil
		} else {
			return "", ErrIsLocked
		}
	}
	if token == "" {
		token = NewLockToken()
	}
	in.locks[key] = &lock{
		token:   token,
		expires: now.Add(LockExpiry),
	}
	return token, nil
}

func (in *inmem) Unlock(ctx context.Context, key, token string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	l, ok := in.locks[key]
	if !ok {
		return nil
	}
	if l.token == token || l.expires.Before(time.Now()) {
		delete(in.locks, key)
		return nil
	}
	return ErrIsLocked
}

func (in *inmem) CreateGame(ctx context.Context, g *rules.Game) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[g.ID]; ok {
		return ErrAlreadyExists
	}
	clone := *g
	in.games[g.ID] = &clone
	in.frames[g.ID] = nil
	return nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*rules.Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *g
	return &clone, nil
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	if err := CheckSequence(len(in.frames[id]), f.Turn); err != nil {
		return err
	}
	in.frames[id] = append(in.frames[id], f)
	return nil
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return PageFrames(in.frames[id], limit, offset), nil
}
