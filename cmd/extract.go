package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/5amCurfew/tap-jira/models"
	"github.com/5amCurfew/tap-jira/sources"
	"github.com/5amCurfew/tap-jira/store"
	log "github.com/sirupsen/logrus"
)

type ExecutionMetric struct {
	Stream            string        `json:"stream"`
	ExecutionStart    time.Time     `json:"execution_start,omitempty"`
	ExecutionEnd      time.Time     `json:"execution_end,omitempty"`
	ExecutionDuration time.Duration `json:"execution_duration,omitempty"`
	Records           uint64        `json:"records"`
	InvalidRecords    uint64        `json:"invalid_records"`
}

// ExtractOptions controls a sync run
type ExtractOptions struct {
	// Refresh ignores persisted bookmarks
	Refresh bool
	// Catalog, when set, limits the run to the streams it lists
	Catalog *models.Catalog
	Out     io.Writer
}

// Extract syncs every selected stream in order, writing SCHEMA, RECORD and STATE messages to opts.Out
func Extract(ctx context.Context, conn *sources.Connection, st store.Store, opts ExtractOptions) error {
	state, err := st.Read(ctx)
	if err != nil {
		return fmt.Errorf("error reading state: %w", err)
	}

	for _, s := range sources.DiscoverStreams(conn) {
		if opts.Catalog != nil && opts.Catalog.Find(s.Name()) == nil {
			log.WithFields(log.Fields{"stream": s.Name()}).Info("stream not in catalog, skipping")
			continue
		}

		if err := extractStream(ctx, s, state, opts); err != nil {
			return fmt.Errorf("error extracting %s: %w", s.Name(), err)
		}

		if err := st.Write(ctx, state); err != nil {
			return fmt.Errorf("error persisting state after %s: %w", s.Name(), err)
		}
	}

	return nil
}

func extractStream(ctx context.Context, s sources.Stream, state *models.State, opts ExtractOptions) error {
	execution := ExecutionMetric{Stream: s.Name(), ExecutionStart: time.Now().UTC()}

	entry, err := sources.CatalogEntry(ctx, s)
	if err != nil {
		return err
	}

	if err := entry.Message().Write(opts.Out); err != nil {
		return err
	}

	properties, err := s.Schema(ctx)
	if err != nil {
		return err
	}

	cursor := sources.NewCursor(s)
	extraction := sources.Extraction{Schema: properties, State: state, FullRefresh: opts.Refresh}

	emit := func(record map[string]interface{}) error {
		if valid, validateRecordSchemaError := entry.RecordVersusCatalog(record); !valid {
			execution.InvalidRecords += 1
			log.WithFields(log.Fields{
				"stream": s.Name(),
				"key":    keyOf(record, s.KeyProperties()),
				"error":  validateRecordSchemaError,
			}).Warn("record violates schema constraints in catalog")
		}

		message := models.Message{
			Type:          "RECORD",
			Stream:        s.Name(),
			Record:        record,
			TimeExtracted: time.Now().UTC().Format(time.RFC3339),
		}
		if err := message.Write(opts.Out); err != nil {
			return err
		}

		execution.Records += 1
		return cursor.Observe(record)
	}

	if err := s.Records(ctx, extraction, emit); err != nil {
		return err
	}

	if cursor.Commit(state) {
		b, _ := state.Get(s.Name())
		log.WithFields(log.Fields{"stream": s.Name(), "bookmark": b.ReplicationKeyValue}).Info("bookmark advanced")
	}

	if err := state.Message().Write(opts.Out); err != nil {
		return err
	}

	execution.ExecutionEnd = time.Now().UTC()
	execution.ExecutionDuration = execution.ExecutionEnd.Sub(execution.ExecutionStart)
	log.WithFields(log.Fields{"metrics": execution}).Info("execution metrics")
	return nil
}

func keyOf(record map[string]interface{}, keyProperties []string) interface{} {
	if len(keyProperties) == 1 {
		return record[keyProperties[0]]
	}
	key := make([]interface{}, 0, len(keyProperties))
	for _, k := range keyProperties {
		key = append(key, record[k])
	}
	return key
}
