package models

import (
	"encoding/json"
	"fmt"
	"os"

	util "github.com/5amCurfew/tap-jira/util"
	"github.com/xeipuuv/gojsonschema"
)

type Catalog struct {
	Streams []*StreamCatalog `json:"streams"`
}

type StreamCatalog struct {
	Stream            string                 `json:"stream"`
	TapStreamID       string                 `json:"tap_stream_id"`
	KeyProperties     []string               `json:"key_properties"`
	ReplicationKey    string                 `json:"replication_key,omitempty"`
	ReplicationMethod string                 `json:"replication_method"`
	Schema            map[string]interface{} `json:"schema"`

	validator *gojsonschema.Schema
}

// ReadCatalog reads a catalog JSON file
func ReadCatalog(fileName string) (*Catalog, error) {
	catalogFile, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(catalogFile, &c); err != nil {
		return nil, fmt.Errorf("error unmarshaling catalog json: %w", err)
	}

	return &c, nil
}

// Write writes the catalog to fileName
func (c *Catalog) Write(fileName string) error {
	if err := util.WriteJSON(fileName, c); err != nil {
		return fmt.Errorf("error writing catalog: %w", err)
	}
	return nil
}

// Find returns the catalog entry for a stream, or nil
func (c *Catalog) Find(stream string) *StreamCatalog {
	for _, s := range c.Streams {
		if s.Stream == stream {
			return s
		}
	}
	return nil
}

// RecordVersusCatalog validates record against the stream schema
func (c *StreamCatalog) RecordVersusCatalog(record map[string]interface{}) (bool, error) {
	if c.validator == nil {
		validator, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(c.Schema))
		if err != nil {
			return false, fmt.Errorf("error compiling %s schema: %w", c.Stream, err)
		}
		c.validator = validator
	}

	result, err := c.validator.Validate(gojsonschema.NewGoLoader(record))
	if err != nil {
		return false, fmt.Errorf("error validating %s record: %w", c.Stream, err)
	}

	if result.Valid() {
		return true, nil
	}

	return false, fmt.Errorf("%s", result.Errors())
}

// Message generates a schema message for the stream
func (c *StreamCatalog) Message() Message {
	message := Message{
		Type:          "SCHEMA",
		Stream:        c.Stream,
		Schema:        c.Schema,
		KeyProperties: c.KeyProperties,
	}
	if c.ReplicationKey != "" {
		message.BookmarkProperties = []string{c.ReplicationKey}
	}
	return message
}
