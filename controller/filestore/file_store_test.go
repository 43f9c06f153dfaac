package filestore

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/controller/testsuite"
	"github.com/trollsnake/engine/rules"
)

func TestFileStoreSuite(t *testing.T) {
	dir, err := ioutil.TempDir("", "filestore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs := NewFileStore(dir)
	defer fs.Close()
	testsuite.Suite(t, fs, func() {})
}

func TestFileStoreReadsBackFinishedGames(t *testing.T) {
	dir, err := ioutil.TempDir("", "filestore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ctx := context.Background()
	frames := testsuite.Frames(3)

	fs := NewFileStore(dir)
	require.NoError(t, fs.CreateGame(ctx, basicGame()))
	for _, f := range frames {
		require.NoError(t, fs.PushGameFrame(ctx, "myid", f))
	}
	require.NoError(t, fs.SetGameStatus(ctx, "myid", rules.GameStatusComplete))
	require.NoError(t, fs.Close())

	// a fresh store only has the file to go on
	fs = NewFileStore(dir)
	defer fs.Close()

	game, err := fs.GetGame(ctx, "myid")
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, game.Status)
	require.Equal(t, int64(7), game.Seed)

	got, err := fs.ListGameFrames(ctx, "myid", 10, 0)
	require.NoError(t, err)
	require.Equal(t, frames, got)

	err = fs.CreateGame(ctx, basicGame())
	require.Equal(t, controller.ErrAlreadyExists, err)
}

func TestFileStore(t *testing.T) {
	fs, w, restore := testFileStore()
	defer restore()
	ctx := context.Background()
	frames := testsuite.Frames(2)

	err := fs.CreateGame(ctx, basicGame())
	require.NoError(t, err)

	game, err := fs.GetGame(ctx, "myid")
	require.NoError(t, err)
	require.Equal(t, basicGame(), game)

	err = fs.PushGameFrame(ctx, "myid", frames[0])
	require.NoError(t, err)
	err = fs.PushGameFrame(ctx, "myid", frames[1])
	require.NoError(t, err)

	got, err := fs.ListGameFrames(ctx, "myid", 5, 0)
	require.NoError(t, err)
	require.Equal(t, frames, got)

	err = fs.SetGameStatus(ctx, "myid", rules.GameStatusComplete)
	require.NoError(t, err)
	require.True(t, w.closed)
	require.Contains(t, w.text, `{"status":"complete"}`)
}

func TestCreateGameHandlesWriteError(t *testing.T) {
	fs, w, restore := testFileStore()
	defer restore()
	w.err = errors.New("fail")
	err := fs.CreateGame(context.Background(), basicGame())
	require.NotNil(t, err)
	require.True(t, w.closed)

	// the failed game is not left behind half created
	_, ok := fs.games["myid"]
	require.False(t, ok)
}

func TestCreateGameHandlesOpenFileError(t *testing.T) {
	restore := stubOpeners(
		func(string, string, bool) (writer, error) { return nil, errors.New("fail") },
		func(string, string) (reader, error) { return nil, errors.New("fail") },
	)
	defer restore()

	fs := NewFileStore("unused")
	err := fs.CreateGame(context.Background(), basicGame())
	require.NotNil(t, err)
}

func TestGetGameNotFound(t *testing.T) {
	fs, _, restore := testFileStore()
	defer restore()

	_, err := fs.GetGame(context.Background(), "notfound")
	require.Equal(t, controller.ErrNotFound, err)
}

func TestPushGameFrameInvalidGame(t *testing.T) {
	fs, _, restore := testFileStore()
	defer restore()

	err := fs.PushGameFrame(context.Background(), "notfound", testsuite.Frames(1)[0])
	require.Equal(t, controller.ErrNotFound, err)
}

func TestPushGameFrameHandlesWriteError(t *testing.T) {
	fs, w, restore := testFileStore()
	defer restore()
	ctx := context.Background()
	require.NoError(t, fs.CreateGame(ctx, basicGame()))

	w.err = errors.New("fail")
	err := fs.PushGameFrame(ctx, "myid", testsuite.Frames(1)[0])
	require.NotNil(t, err)

	// nothing was recorded, so turn 0 is still next
	w.err = nil
	err = fs.PushGameFrame(ctx, "myid", testsuite.Frames(1)[0])
	require.NoError(t, err)
}

func TestListGameFramesInvalidGame(t *testing.T) {
	fs, _, restore := testFileStore()
	defer restore()

	_, err := fs.ListGameFrames(context.Background(), "notfound", 5, 0)
	require.Equal(t, controller.ErrNotFound, err)
}

func TestSetGameStatusInvalidGame(t *testing.T) {
	fs, _, restore := testFileStore()
	defer restore()

	err := fs.SetGameStatus(context.Background(), "notfound", rules.GameStatusComplete)
	require.Equal(t, controller.ErrNotFound, err)
}

func TestLockUnlock(t *testing.T) {
	fs, _, restore := testFileStore()
	defer restore()
	ctx := context.Background()

	tok, err := fs.Lock(ctx, "asdf", "")
	require.NoError(t, err)
	_, err = fs.Lock(ctx, "asdf", "")
	require.Equal(t, controller.ErrIsLocked, err)
	require.NoError(t, fs.Unlock(ctx, "asdf", tok))
}

func basicGame() *rules.Game {
	return &rules.Game{
		ID:     "myid",
		Status: rules.GameStatusRunning,
		Seed:   7,
		Width:  rules.GridSize,
		Height: rules.GridSize,
	}
}

func stubOpeners(
	w func(string, string, bool) (writer, error),
	r func(string, string) (reader, error),
) func() {
	oldWriter, oldReader := openFileWriter, openFileReader
	openFileWriter, openFileReader = w, r
	return func() { openFileWriter, openFileReader = oldWriter, oldReader }
}

// testFileStore returns a store whose single game file lives in memory.
func testFileStore() (*Store, *mockWriter, func()) {
	w := &mockWriter{}
	restore := stubOpeners(
		func(string, string, bool) (writer, error) {
			w.closed = false
			return w, nil
		},
		func(_, id string) (reader, error) {
			if w.text == "" {
				return nil, os.ErrNotExist
			}
			return newMockReader(w.text), nil
		},
	)
	return NewFileStore("unused"), w, restore
}
