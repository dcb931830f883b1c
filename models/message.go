package models

import (
	"encoding/json"
	"fmt"
	"io"
)

type Message struct {
	Type               string                 `json:"type"`
	Record             map[string]interface{} `json:"record,omitempty"`
	Stream             string                 `json:"stream,omitempty"`
	TimeExtracted      string                 `json:"time_extracted,omitempty"`
	Schema             interface{}            `json:"schema,omitempty"`
	Value              interface{}            `json:"value,omitempty"`
	KeyProperties      []string               `json:"key_properties,omitempty"`
	BookmarkProperties []string               `json:"bookmark_properties,omitempty"`
}

// Write writes the message to w as a single line of JSON
func (m Message) Write(w io.Writer) error {
	messageJson, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("error creating %s message: %w", m.Type, err)
	}

	if _, err := w.Write(append(messageJson, '\n')); err != nil {
		return fmt.Errorf("error writing %s message: %w", m.Type, err)
	}

	return nil
}
