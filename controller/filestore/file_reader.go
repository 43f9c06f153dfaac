package filestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/trollsnake/engine/controller"
)

var openFileReader = fileReader

type reader interface {
	ReadBytes(delim byte) ([]byte, error)
	Close() error
}

type bufferedFile struct {
	*bufio.Reader
	f *os.File
}

func (b *bufferedFile) Close() error { return b.f.Close() }

func fileReader(directory, id string) (reader, error) {
	f, err := os.Open(getFilePath(directory, id))
	if err != nil {
		return nil, err
	}
	return &bufferedFile{Reader: bufio.NewReader(f), f: f}, nil
}

// readLine decodes the next non blank line into out. It returns false when
// there was nothing left to read.
func readLine(r reader, out interface{}) (bool, error) {
	for {
		line, err := r.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return false, err
		}

		if len(bytes.TrimSpace(line)) > 0 {
			if err := json.Unmarshal(line, out); err != nil {
				return false, errors.Wrap(err, "corrupt game file")
			}
			return true, nil
		}
		if eof {
			return false, nil
		}
	}
}

// readArchive replays a game file. The first record is the game header,
// after which frames and status changes appear in the order they happened.
func readArchive(directory, id string) (gameArchive, error) {
	r, err := openFileReader(directory, id)
	if err != nil {
		if os.IsNotExist(err) {
			return gameArchive{}, controller.ErrNotFound
		}
		return gameArchive{}, err
	}
	defer r.Close()

	var header record
	ok, err := readLine(r, &header)
	if err != nil {
		return gameArchive{}, err
	}
	if !ok || header.Game == nil {
		return gameArchive{}, errors.Errorf("game file %s has no header", id)
	}

	archive := gameArchive{game: header.Game}
	for {
		var rec record
		ok, err := readLine(r, &rec)
		if err != nil {
			return gameArchive{}, err
		}
		if !ok {
			return archive, nil
		}

		switch {
		case rec.Frame != nil:
			archive.frames = append(archive.frames, rec.Frame)
		case rec.Status != "":
			archive.game.Status = rec.Status
		}
	}
}
