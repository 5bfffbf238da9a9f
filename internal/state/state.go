// Package state persists the filter panel selections between sessions.
// It plays the role the browser's local storage plays for the web client:
// a dumb key-value collaborator the engine never touches directly.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"staffdir/internal/config"
	"staffdir/internal/engine"
)

// SavedFilters is the on-disk shape of the persisted UI selections.
type SavedFilters struct {
	Org     engine.OrgFilter     `json:"org"`
	Special engine.SpecialFilter `json:"special"`
}

// Store reads and writes SavedFilters to a single JSON file.
type Store struct {
	path string
}

// NewStore creates a filter-state store at the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted selections. A missing file is not an error:
// it yields the zero value, meaning no restriction.
func (s *Store) Load() (SavedFilters, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(config.MsgStateMissing,
			config.LogKeyComponent, config.CompState,
			config.LogKeyFile, s.path,
		)
		return SavedFilters{}, nil
	}
	if err != nil {
		return SavedFilters{}, fmt.Errorf("%s: %w", config.ErrStateLoad, err)
	}

	var saved SavedFilters
	if err := json.Unmarshal(data, &saved); err != nil {
		return SavedFilters{}, fmt.Errorf("%s: %w", config.ErrStateLoad, err)
	}

	slog.Debug(config.MsgStateLoaded,
		config.LogKeyComponent, config.CompState,
		config.LogKeyFile, s.path,
	)
	return saved, nil
}

// Save writes the selections atomically enough for a single-writer app:
// the file is small and replaced in one WriteFile call.
func (s *Store) Save(saved SavedFilters) error {
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStateSave, err)
	}
	if err := os.WriteFile(s.path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStateSave, err)
	}

	slog.Debug(config.MsgStateSaved,
		config.LogKeyComponent, config.CompState,
		config.LogKeyFile, s.path,
	)
	return nil
}
