package store

import (
	"encoding/gob"
	"os"

	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

// SavedState is what gets written to a state file.
type SavedState struct {
	Variant  string
	Snapshot orbit.Snapshot
}

// SaveState writes s to filename. A partially written file is removed.
func SaveState(filename string, s SavedState) error {
	file, err := os.Create(filename)
	if err != nil {
		return logging.WrapError(err, "create state file")
	}

	if err := gob.NewEncoder(file).Encode(s); err != nil {
		file.Close()
		os.Remove(filename)
		return logging.WrapError(err, "encode state to %s", filename)
	}
	return file.Close()
}

// LoadState reads a state file written by SaveState.
func LoadState(filename string) (SavedState, error) {
	var s SavedState
	file, err := os.Open(filename)
	if err != nil {
		return s, logging.WrapError(err, "open state file")
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&s); err != nil {
		return s, logging.WrapError(err, "decode state from %s", filename)
	}
	return s, nil
}
