package sources

import (
	"context"

	"github.com/5amCurfew/tap-jira/models"
	"github.com/5amCurfew/tap-jira/schema"
)

const (
	pageSize   = 100
	dateLayout = "2006-01-02"
)

// Emit receives each extracted record in order; an error stops the stream
type Emit func(record map[string]interface{}) error

// Extraction carries what a stream needs for one pass over its records
type Extraction struct {
	Schema      schema.Properties
	State       *models.State
	FullRefresh bool
}

// Stream is one record type extracted from Jira
type Stream interface {
	Name() string
	KeyProperties() []string
	ReplicationKey() string
	Schema(ctx context.Context) (schema.Properties, error)
	Records(ctx context.Context, x Extraction, emit Emit) error
}

type stream struct {
	conn           *Connection
	name           string
	keyProperties  []string
	replicationKey string
}

func (s *stream) Name() string {
	return s.name
}

func (s *stream) KeyProperties() []string {
	return s.keyProperties
}

func (s *stream) ReplicationKey() string {
	return s.replicationKey
}
