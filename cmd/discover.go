package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/5amCurfew/tap-jira/models"
	"github.com/5amCurfew/tap-jira/sources"
	log "github.com/sirupsen/logrus"
)

// Discover resolves every stream schema, writes the catalog to catalogPath and prints it to out
func Discover(ctx context.Context, conn *sources.Connection, catalogPath string, out io.Writer) (*models.Catalog, error) {
	catalog := &models.Catalog{}

	for _, s := range sources.DiscoverStreams(conn) {
		entry, err := sources.CatalogEntry(ctx, s)
		if err != nil {
			return nil, err
		}
		catalog.Streams = append(catalog.Streams, entry)
	}

	if catalogPath != "" {
		if err := catalog.Write(catalogPath); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"path": catalogPath, "streams": len(catalog.Streams)}).Info("catalog written")
	}

	catalogJson, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling catalog: %w", err)
	}
	if _, err := out.Write(append(catalogJson, '\n')); err != nil {
		return nil, fmt.Errorf("error writing catalog: %w", err)
	}

	return catalog, nil
}
