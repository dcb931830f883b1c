// Package store persists tap state between runs, either as a JSON file or in a SQL table.
package store

import (
	"context"
	"strings"

	"github.com/5amCurfew/tap-jira/models"
)

// Store reads and writes the bookmarks of a run
type Store interface {
	Read(ctx context.Context) (*models.State, error)
	Write(ctx context.Context, state *models.State) error
	Close() error
}

// Open returns a SQL store for a database URL and a file store for any other path
func Open(location string) (Store, error) {
	if strings.Contains(location, "://") {
		return OpenSQL(location)
	}
	return NewFileStore(location), nil
}
