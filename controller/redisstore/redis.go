// Package redisstore is a controller.Store backed by redis. Each game is a
// JSON value under game:<id>, its frames a list under game:<id>:frames and its
// write lock a key with a TTL under lock:<id>.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

// Store is a redis backed store.
type Store struct {
	client *redis.Client
}

// NewRedisStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewRedisStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client}, nil
}

// Close closes the underlying client.
func (rs *Store) Close() error {
	return rs.client.Close()
}

func gameKey(id string) string   { return "game:" + id }
func framesKey(id string) string { return "game:" + id + ":frames" }
func lockKey(id string) string   { return "lock:" + id }

// Lock will lock a specific game, returning a token that must be used to
// write frames to the game.
func (rs *Store) Lock(ctx context.Context, key, token string) (string, error) {
	if token == "" {
		token = controller.NewLockToken()
	}
	lk := lockKey(key)

	err := rs.client.Watch(func(tx *redis.Tx) error {
		current, err := tx.Get(lk).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil && current != token {
			return controller.ErrIsLocked
		}

		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			if controller.LockExpiry <= 0 {
				// Already expired, so there is nothing to hold.
				pipe.Del(lk)
				return nil
			}
			pipe.Set(lk, token, controller.LockExpiry)
			return nil
		})
		return err
	}, lk)
	if err != nil {
		return "", wrap(err, "unable to lock game")
	}
	return token, nil
}

// Unlock will unlock a game if it is locked and the token used to lock it
// is correct.
func (rs *Store) Unlock(ctx context.Context, key, token string) error {
	lk := lockKey(key)
	err := rs.client.Watch(func(tx *redis.Tx) error {
		current, err := tx.Get(lk).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		if current != token {
			return controller.ErrIsLocked
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Del(lk)
			return nil
		})
		return err
	}, lk)
	return wrap(err, "unable to unlock game")
}

// CreateGame will insert a game. It fails if the ID is taken.
func (rs *Store) CreateGame(ctx context.Context, g *rules.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to encode game")
	}
	created, err := rs.client.SetNX(gameKey(g.ID), data, 0).Result()
	if err != nil {
		return errors.Wrap(err, "unable to create game")
	}
	if !created {
		return controller.ErrAlreadyExists
	}
	return nil
}

// GetGame will fetch the game.
func (rs *Store) GetGame(ctx context.Context, id string) (*rules.Game, error) {
	data, err := rs.client.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, controller.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch game")
	}
	g := &rules.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "unable to decode game")
	}
	return g, nil
}

// SetGameStatus is used to set a specific game status. This operation
// should be atomic.
func (rs *Store) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	gk := gameKey(id)
	err := rs.client.Watch(func(tx *redis.Tx) error {
		data, err := tx.Get(gk).Bytes()
		if err == redis.Nil {
			return controller.ErrNotFound
		}
		if err != nil {
			return err
		}

		g := &rules.Game{}
		if err := json.Unmarshal(data, g); err != nil {
			return err
		}
		g.Status = status
		if data, err = json.Marshal(g); err != nil {
			return err
		}

		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(gk, data, 0)
			return nil
		})
		return err
	}, gk)
	return wrap(err, "unable to set game status")
}

// PushGameFrame will push a game frame onto the list of frames.
func (rs *Store) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "unable to encode frame")
	}

	gk, fk := gameKey(id), framesKey(id)
	err = rs.client.Watch(func(tx *redis.Tx) error {
		exists, err := tx.Exists(gk).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return controller.ErrNotFound
		}
		count, err := tx.LLen(fk).Result()
		if err != nil {
			return err
		}
		if err := controller.CheckSequence(int(count), f.Turn); err != nil {
			return err
		}

		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.RPush(fk, data)
			return nil
		})
		return err
	}, gk, fk)
	return wrap(err, "unable to push frame")
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (rs *Store) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	exists, err := rs.client.Exists(gameKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch game")
	}
	if exists == 0 {
		return nil, controller.ErrNotFound
	}
	if limit <= 0 {
		return nil, nil
	}

	fk := framesKey(id)
	start := int64(offset)
	if start < 0 {
		count, err := rs.client.LLen(fk).Result()
		if err != nil {
			return nil, errors.Wrap(err, "unable to count frames")
		}
		start += count
		if start < 0 {
			start = 0
		}
	}

	values, err := rs.client.LRange(fk, start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list frames")
	}

	var frames []*rules.Frame
	for _, v := range values {
		f := &rules.Frame{}
		if err := json.Unmarshal([]byte(v), f); err != nil {
			return nil, errors.Wrap(err, "unable to decode frame")
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// wrap adds context to unexpected errors and passes the controller sentinel
// errors through untouched so callers can compare against them.
func wrap(err error, msg string) error {
	switch err {
	case nil, controller.ErrNotFound, controller.ErrIsLocked, controller.ErrInvalidSequence:
		return err
	}
	return errors.Wrap(err, msg)
}
