package filestore

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/trollsnake/engine/rules"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// record is one line of a game file. Exactly one field is set.
type record struct {
	Game   *rules.Game      `json:"game,omitempty"`
	Frame  *rules.Frame     `json:"frame,omitempty"`
	Status rules.GameStatus `json:"status,omitempty"`
}

func requireSaveDir(directory string) error {
	return os.MkdirAll(directory, 0775)
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "unable to encode record")
	}
	_, err = w.WriteString(string(j) + "\n")
	return errors.Wrap(err, "unable to write record")
}

func writeGame(w writer, g *rules.Game) error {
	return writeLine(w, &record{Game: g})
}

func writeFrame(w writer, f *rules.Frame) error {
	return writeLine(w, &record{Frame: f})
}

func writeStatus(w writer, status rules.GameStatus) error {
	return writeLine(w, &record{Status: status})
}

func appendOnlyFileWriter(directory, id string, mustCreate bool) (writer, error) {
	if err := requireSaveDir(directory); err != nil {
		return nil, err
	}

	path := getFilePath(directory, id)
	flags := os.O_APPEND | os.O_WRONLY
	if mustCreate {
		flags |= os.O_CREATE | os.O_EXCL
	}
	return os.OpenFile(path, flags, 0644)
}
