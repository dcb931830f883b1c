package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/5amCurfew/tap-jira/models"
	util "github.com/5amCurfew/tap-jira/util"
)

// FileStore keeps state in a JSON file, created on first write
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read returns an empty state when the file does not exist yet
func (s *FileStore) Read(ctx context.Context) (*models.State, error) {
	stateFile, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading state file: %w", err)
	}

	state := models.NewState()
	if err := json.Unmarshal(stateFile, state); err != nil {
		return nil, fmt.Errorf("error unmarshaling state json: %w", err)
	}
	if state.Bookmarks == nil {
		state.Bookmarks = map[string]models.Bookmark{}
	}

	return state, nil
}

func (s *FileStore) Write(ctx context.Context, state *models.State) error {
	if err := util.WriteJSON(s.path, state); err != nil {
		return fmt.Errorf("error writing state file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
