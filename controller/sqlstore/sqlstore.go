// Package sqlstore is a controller.Store backed by postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq" // Import pq driver.
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/config"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/rules"
)

const migrations = `
CREATE TABLE IF NOT EXISTS locks (
	key VARCHAR(255) PRIMARY KEY,
	token VARCHAR(255) NOT NULL,
	expiry TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS games (
	id VARCHAR(255) PRIMARY KEY,
	value jsonb,
	created timestamp default now()
);
CREATE TABLE IF NOT EXISTS game_frames (
	id VARCHAR(255),
	turn INTEGER,
	value jsonb,
	PRIMARY KEY (id, turn)
);
`

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to migrate")
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			// err is non-nil; don't change it
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()
	err = txFunc(tx)
	return err
}

// Lock will lock a specific game, returning a token that must be used to
// write frames to the game.
func (s *Store) Lock(ctx context.Context, key, token string) (string, error) {
	now := time.Now()
	expiry := now.Add(controller.LockExpiry)

	if token == "" {
		token = controller.NewLockToken()
	}

	var inserted string
	if err := s.transact(ctx, func(tx *sql.Tx) error {
		// Do a conditional update or insert.
		// - If `key` already exists and `token` matches the current token, bump.
		// - If `key` doesn't exist insert expiry.
		// - If `key` exists and `token` doesn't match return ErrIsLocked.
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO locks (key, token, expiry) VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET token=$2, expiry=$3
		WHERE locks.token=$2 OR locks.expiry < $4`,
			key, token, expiry, now,
		); err != nil {
			return err
		}
		r := tx.QueryRowContext(ctx, "SELECT token FROM locks WHERE key=$1", key)
		if err := r.Scan(&inserted); err != nil {
			if err != sql.ErrNoRows {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", errors.Wrap(err, "unable to lock game")
	}

	if inserted == token {
		return token, nil
	}
	return "", controller.ErrIsLocked
}

// Unlock will unlock a game if it is locked and the token used to lock it
// is correct.
func (s *Store) Unlock(ctx context.Context, key, token string) error {
	now := time.Now()
	return s.transact(ctx, func(tx *sql.Tx) error {
		r := tx.QueryRowContext(ctx,
			`SELECT token FROM locks WHERE key=$1 AND expiry > $2`, key, now)

		var curToken string
		if err := r.Scan(&curToken); err != nil {
			if err == sql.ErrNoRows {
				// Missing or expired, either way nobody holds it.
				_, err = tx.ExecContext(ctx, `DELETE FROM locks WHERE key=$1`, key)
				return err
			}
			return err
		}
		if curToken != token {
			return controller.ErrIsLocked
		}

		_, err := tx.ExecContext(
			ctx, `DELETE FROM locks WHERE key=$1 AND token=$2`, key, token)
		return err
	})
}

// SetGameStatus is used to set a specific game status. This operation
// should be atomic.
func (s *Store) SetGameStatus(
	ctx context.Context, id string, status rules.GameStatus) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE games SET value = jsonb_set(value, '{status}', to_jsonb($2::text)) WHERE id = $1`,
			id, string(status))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return controller.ErrNotFound
		}
		return nil
	})
}

// CreateGame will insert a game. It fails if the ID is taken.
func (s *Store) CreateGame(ctx context.Context, g *rules.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to encode game")
	}
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO games (id, value) VALUES ($1, $2)
	ON CONFLICT (id) DO NOTHING`,
		g.ID, data,
	)
	if err != nil {
		return errors.Wrap(err, "unable to create game")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return controller.ErrAlreadyExists
	}
	return nil
}

func (s *Store) pushFrames(
	ctx context.Context, tx *sql.Tx, id string, frames ...*rules.Frame) error {
	// Locking the game row serialises concurrent pushes to the same game.
	var gameID string
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM games WHERE id=$1 FOR UPDATE", id,
	).Scan(&gameID); err != nil {
		if err == sql.ErrNoRows {
			return controller.ErrNotFound
		}
		return err
	}

	var count int
	if err := tx.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM game_frames WHERE id=$1", id,
	).Scan(&count); err != nil {
		return err
	}
	for i, f := range frames {
		if err := controller.CheckSequence(count+i, f.Turn); err != nil {
			return err
		}
	}

	for _, frame := range frames {
		frameData, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx, `INSERT INTO game_frames (id, turn, value) VALUES ($1, $2, $3)`,
			id, frame.Turn, frameData,
		); err != nil {
			return err
		}
	}
	return nil
}

// PushGameFrame will push a game frame onto the list of frames.
func (s *Store) PushGameFrame(
	ctx context.Context, id string, f *rules.Frame) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		return s.pushFrames(ctx, tx, id, f)
	})
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (s *Store) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	if _, err := s.GetGame(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	if offset < 0 {
		var count int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM game_frames WHERE id=$1", id,
		).Scan(&count); err != nil {
			return nil, err
		}
		offset += count
		if offset < 0 {
			offset = 0
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM game_frames WHERE id=$1 ORDER BY turn ASC LIMIT $2 OFFSET $3`,
		id, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	var frames []*rules.Frame
	defer rows.Close()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		frame := &rules.Frame{}
		if err := json.Unmarshal(data, frame); err != nil {
			return nil, err
		}

		frames = append(frames, frame)
	}

	return frames, rows.Err()
}

// GetGame will fetch the game.
func (s *Store) GetGame(c context.Context, id string) (*rules.Game, error) {
	r := s.db.QueryRowContext(c, "SELECT value FROM games WHERE id=$1", id)

	var data []byte
	if err := r.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, controller.ErrNotFound
		}
		return nil, err
	}

	g := &rules.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}
