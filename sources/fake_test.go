package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/5amCurfew/tap-jira/jira"
)

// fakeAPI serves canned pages keyed by offset
type fakeAPI struct {
	userPages  [][]map[string]interface{}
	issuePages [][]jira.Issue
	projects   []map[string]interface{}
	fields     []jira.Field

	userSearchOffsets  []int
	issueSearchOffsets []int
	jqls               []string
	fieldCalls         int
	err                error
}

func (f *fakeAPI) Myself(ctx context.Context) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]interface{}{"accountId": "me"}, nil
}

func (f *fakeAPI) SearchUsers(ctx context.Context, query string, startAt, maxResults int) ([]map[string]interface{}, error) {
	f.userSearchOffsets = append(f.userSearchOffsets, startAt)
	page := startAt / maxResults
	if page >= len(f.userPages) {
		return nil, nil
	}
	return f.userPages[page], nil
}

func (f *fakeAPI) User(ctx context.Context, accountID, expand string) (map[string]interface{}, error) {
	if expand != "groups" {
		return nil, fmt.Errorf("unexpected expand %q", expand)
	}
	return map[string]interface{}{
		"accountId":   accountID,
		"displayName": "Detail " + accountID,
		"groups":      map[string]interface{}{"size": 1, "items": []interface{}{map[string]interface{}{"name": "devs"}}},
	}, nil
}

func (f *fakeAPI) Projects(ctx context.Context) ([]map[string]interface{}, error) {
	return f.projects, f.err
}

func (f *fakeAPI) Fields(ctx context.Context) ([]jira.Field, error) {
	f.fieldCalls++
	return f.fields, f.err
}

func (f *fakeAPI) SearchIssues(ctx context.Context, jql string, startAt, maxResults int) ([]jira.Issue, error) {
	f.issueSearchOffsets = append(f.issueSearchOffsets, startAt)
	f.jqls = append(f.jqls, jql)
	if f.err != nil {
		return nil, f.err
	}
	page := startAt / maxResults
	if page >= len(f.issuePages) {
		return nil, nil
	}
	return f.issuePages[page], nil
}

func testConnection(api API) *Connection {
	return &Connection{API: api, StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func collect(records *[]map[string]interface{}) Emit {
	return func(record map[string]interface{}) error {
		*records = append(*records, record)
		return nil
	}
}

func userHits(ids ...string) []map[string]interface{} {
	hits := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, map[string]interface{}{"accountId": id, "displayName": "Hit " + id})
	}
	return hits
}
