package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsRenamesID(t *testing.T) {
	api := &fakeAPI{projects: []map[string]interface{}{
		{"id": "10000", "key": "ABC", "name": "Alpha"},
		{"id": "10001", "key": "DEF", "name": "Delta"},
	}}
	s := NewProjectsStream(testConnection(api))

	var records []map[string]interface{}
	require.NoError(t, s.Records(context.Background(), Extraction{}, collect(&records)))

	require.Len(t, records, 2)
	assert.NotContains(t, records[0], "id")
	assert.Equal(t, "10000", records[0]["projectId"])
	assert.Equal(t, "10001", records[1]["projectId"])
	assert.Equal(t, []string{"projectId"}, s.KeyProperties())
}

func TestProjectsWithoutIDFails(t *testing.T) {
	api := &fakeAPI{projects: []map[string]interface{}{{"key": "ABC"}}}
	s := NewProjectsStream(testConnection(api))

	err := s.Records(context.Background(), Extraction{}, func(map[string]interface{}) error { return nil })
	assert.ErrorContains(t, err, "no id")
}

func TestProjectsPropagatesAPIError(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	s := NewProjectsStream(testConnection(api))

	err := s.Records(context.Background(), Extraction{}, func(map[string]interface{}) error { return nil })
	assert.ErrorContains(t, err, "boom")
}
