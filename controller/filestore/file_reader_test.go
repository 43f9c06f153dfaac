package filestore

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/controller/testsuite"
	"github.com/trollsnake/engine/rules"
)

type mockReader struct {
	*bufio.Reader
}

func (m *mockReader) Close() error {
	return nil
}

func newMockReader(text string) *mockReader {
	return &mockReader{
		Reader: bufio.NewReader(strings.NewReader(text)),
	}
}

type failReader struct{}

func (f *failReader) ReadBytes(delimiter byte) ([]byte, error) {
	return nil, errors.New("FAIL")
}

func (f *failReader) Close() error {
	return errors.New("FAIL")
}

func fileOpener(files map[string]string) func(string, string) (reader, error) {
	return func(_, id string) (reader, error) {
		text, ok := files[id]
		if !ok {
			return nil, errors.New("file not found")
		}
		return newMockReader(text), nil
	}
}

func archiveText(t *testing.T, frames []*rules.Frame, statuses ...rules.GameStatus) string {
	w := &mockWriter{}
	require.NoError(t, writeGame(w, basicGame()))
	for _, f := range frames {
		require.NoError(t, writeFrame(w, f))
	}
	for _, s := range statuses {
		require.NoError(t, writeStatus(w, s))
	}
	return w.text
}

func TestReadArchive(t *testing.T) {
	frames := testsuite.Frames(3)
	restore := stubOpeners(openFileWriter, fileOpener(map[string]string{
		"myid": archiveText(t, frames, rules.GameStatusStopped),
	}))
	defer restore()

	archive, err := readArchive("unused", "myid")
	require.NoError(t, err)
	require.Equal(t, "myid", archive.game.ID)
	require.Equal(t, rules.GameStatusStopped, archive.game.Status)
	require.Equal(t, frames, archive.frames)
}

func TestReadArchiveSkipsBlankLines(t *testing.T) {
	text := archiveText(t, testsuite.Frames(1))
	restore := stubOpeners(openFileWriter, fileOpener(map[string]string{
		"myid": "\n" + strings.Replace(text, "\n", "\n\n", -1),
	}))
	defer restore()

	archive, err := readArchive("unused", "myid")
	require.NoError(t, err)
	require.Len(t, archive.frames, 1)
}

func TestReadArchiveNoTrailingNewline(t *testing.T) {
	text := archiveText(t, testsuite.Frames(2))
	restore := stubOpeners(openFileWriter, fileOpener(map[string]string{
		"myid": strings.TrimSuffix(text, "\n"),
	}))
	defer restore()

	archive, err := readArchive("unused", "myid")
	require.NoError(t, err)
	require.Len(t, archive.frames, 2)
}

func TestReadArchiveErrors(t *testing.T) {
	restore := stubOpeners(openFileWriter, fileOpener(map[string]string{
		"empty":     "",
		"noheader":  `{"status":"running"}` + "\n",
		"corrupt":   archiveText(t, nil) + "{not json\n",
		"badheader": "garbage\n",
	}))
	defer restore()

	for _, id := range []string{"empty", "noheader", "corrupt", "badheader", "missing"} {
		_, err := readArchive("unused", id)
		require.Error(t, err, id)
	}
}

func TestReadArchiveNotFound(t *testing.T) {
	restore := stubOpeners(openFileWriter, fileReader)
	defer restore()

	_, err := readArchive("/nonexistent-dir", "nope")
	require.Equal(t, controller.ErrNotFound, err)
}

func TestReadLineHandlesReadError(t *testing.T) {
	var rec record
	more, err := readLine(&failReader{}, &rec)
	require.False(t, more)
	require.Error(t, err)
}
