// Package position persists the toolbar's top-left corner between runs.
package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/mira/internal/atomicfile"
	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/runtimepath"
)

// FileName is the position record's file name inside the data directory.
const FileName = "toolbar-position.json"

// Position is the persisted toolbar position in physical pixels.
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Point converts the record to a geometry point.
func (p Position) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// FromPoint converts a geometry point to a record.
func FromPoint(pt geometry.Point) Position {
	return Position{X: pt.X, Y: pt.Y}
}

// Store reads and writes the position record in a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewDefaultStore returns a store in the per-user application data directory.
func NewDefaultStore() (*Store, error) {
	dir, err := runtimepath.DataDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir), nil
}

// Path returns the record's file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load returns the saved position. A missing, unreadable or malformed file
// reports ok=false; it is never an error.
func (s *Store) Load() (Position, bool) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return Position{}, false
	}
	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return Position{}, false
	}
	return pos, true
}

// Save overwrites the record.
func (s *Store) Save(pos Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to encode toolbar position: %w", err)
	}
	if err := atomicfile.Save(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write toolbar position: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete toolbar position: %w", err)
	}
	return nil
}
