package sources

import (
	"context"
	"fmt"

	"github.com/5amCurfew/tap-jira/models"
)

// DiscoverStreams returns the streams of the tap in sync order
func DiscoverStreams(conn *Connection) []Stream {
	return []Stream{
		NewProjectsStream(conn),
		NewIssuesStream(conn),
		NewUsersStream(conn),
	}
}

// CatalogEntry resolves the schema of a stream into its catalog entry
func CatalogEntry(ctx context.Context, s Stream) (*models.StreamCatalog, error) {
	properties, err := s.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s schema: %w", s.Name(), err)
	}

	replicationMethod := "FULL_TABLE"
	if s.ReplicationKey() != "" {
		replicationMethod = "INCREMENTAL"
	}

	return &models.StreamCatalog{
		Stream:            s.Name(),
		TapStreamID:       s.Name(),
		KeyProperties:     s.KeyProperties(),
		ReplicationKey:    s.ReplicationKey(),
		ReplicationMethod: replicationMethod,
		Schema:            properties.ToMap(),
	}, nil
}
