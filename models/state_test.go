package models

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAdvanceIsMonotonic(t *testing.T) {
	s := NewState()
	first := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, s.Advance("issues", "updated", first))
	assert.False(t, s.Advance("issues", "updated", first.Add(-time.Hour)))
	assert.False(t, s.Advance("issues", "updated", first))

	v, ok := s.Value("issues")
	require.True(t, ok)
	assert.True(t, first.Equal(v))

	assert.True(t, s.Advance("issues", "updated", first.Add(time.Minute)))
	b, ok := s.Get("issues")
	require.True(t, ok)
	assert.Equal(t, "updated", b.ReplicationKey)
	assert.Equal(t, "2020-01-02T03:05:05Z", b.ReplicationKeyValue)
}

func TestStateNilSafe(t *testing.T) {
	var s *State
	_, ok := s.Get("issues")
	assert.False(t, ok)
	_, ok = s.Value("issues")
	assert.False(t, ok)
}

func TestStateMessage(t *testing.T) {
	s := NewState()
	s.Bookmarks["issues"] = Bookmark{ReplicationKey: "updated", ReplicationKeyValue: "2020-01-01T00:00:00Z"}

	var buf bytes.Buffer
	require.NoError(t, s.Message().Write(&buf))
	assert.JSONEq(t, `{"type":"STATE","value":{"bookmarks":{"issues":{"replication_key":"updated","replication_key_value":"2020-01-01T00:00:00Z"}}}}`, buf.String())
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}
