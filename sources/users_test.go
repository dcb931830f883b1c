package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersEmitsDetailRecords(t *testing.T) {
	api := &fakeAPI{userPages: [][]map[string]interface{}{
		userHits("a", "b"),
		userHits("c"),
	}}
	s := NewUsersStream(testConnection(api))

	var records []map[string]interface{}
	require.NoError(t, s.Records(context.Background(), Extraction{}, collect(&records)))

	require.Len(t, records, 3)
	for _, record := range records {
		assert.Contains(t, record, "groups")
		assert.Equal(t, "Detail "+record["accountId"].(string), record["displayName"])
	}
	assert.Equal(t, []int{0, 100, 200}, api.userSearchOffsets)
}

func TestUsersStopsOnEmptyPage(t *testing.T) {
	api := &fakeAPI{userPages: [][]map[string]interface{}{{}, userHits("never")}}
	s := NewUsersStream(testConnection(api))

	var records []map[string]interface{}
	require.NoError(t, s.Records(context.Background(), Extraction{}, collect(&records)))

	assert.Empty(t, records)
	assert.Equal(t, []int{0}, api.userSearchOffsets)
}

func TestUsersRejectsHitWithoutAccountID(t *testing.T) {
	api := &fakeAPI{userPages: [][]map[string]interface{}{{{"displayName": "ghost"}}}}
	s := NewUsersStream(testConnection(api))

	err := s.Records(context.Background(), Extraction{}, func(map[string]interface{}) error { return nil })
	assert.ErrorContains(t, err, "accountId")
}

func TestUsersDescriptor(t *testing.T) {
	s := NewUsersStream(testConnection(&fakeAPI{}))

	assert.Equal(t, "users", s.Name())
	assert.Equal(t, []string{"accountId"}, s.KeyProperties())
	assert.Empty(t, s.ReplicationKey())

	properties, err := s.Schema(context.Background())
	require.NoError(t, err)
	assert.Contains(t, properties.Names(), "groups")
}
