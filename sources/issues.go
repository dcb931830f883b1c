package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/5amCurfew/tap-jira/jira"
	"github.com/5amCurfew/tap-jira/schema"
	util "github.com/5amCurfew/tap-jira/util"
	log "github.com/sirupsen/logrus"
)

const (
	issuesReplicationKey = "updated"
	jqlMinuteLayout      = "2006-01-02 15:04"

	// JQL reads times in the user's profile timezone, which may be up to a day away from UTC
	bookmarkLookback = 24 * time.Hour
)

// IssuesStream emits issues updated since the lower bound, oldest first.
// Its schema is resolved from the instance's field metadata on first use.
type IssuesStream struct {
	stream
	schema schema.Properties
}

func NewIssuesStream(conn *Connection) *IssuesStream {
	return &IssuesStream{stream: stream{
		conn:           conn,
		name:           "issues",
		keyProperties:  []string{"issueId"},
		replicationKey: issuesReplicationKey,
	}}
}

// Schema declares issueId and key, updated as a date-time and every other field as a string
func (s *IssuesStream) Schema(ctx context.Context) (schema.Properties, error) {
	if s.schema != nil {
		return s.schema, nil
	}

	fields, err := s.conn.API.Fields(ctx)
	if err != nil {
		return nil, err
	}

	properties := schema.PropertiesList(
		schema.Property("issueId", schema.StringType),
		schema.Property("key", schema.StringType, schema.Description("Jira issue key")),
	)
	for _, field := range fields {
		key := field.FieldKey()
		if _, exists := properties.Get(key); exists {
			continue
		}
		if key == issuesReplicationKey {
			properties = append(properties, schema.Property(key, schema.DateTimeType))
			continue
		}
		properties = append(properties, schema.Property(key, schema.StringType, schema.Description(field.Name)))
	}

	log.WithFields(log.Fields{"stream": s.name, "properties": len(properties)}).Info("resolved issues schema")
	s.schema = properties
	return s.schema, nil
}

// LowerBound is the start date, or the persisted bookmark less a day of lookback
// when that is later and this is not a full refresh
func (s *IssuesStream) LowerBound(x Extraction) time.Time {
	lower := s.conn.StartDate
	if x.FullRefresh {
		return lower
	}
	if bookmark, ok := x.State.Value(s.name); ok {
		if resume := bookmark.Add(-bookmarkLookback); resume.After(lower) {
			return resume
		}
	}
	return lower
}

// JQL builds the ascending search for issues updated at or after lower
func JQL(lower time.Time) string {
	bound := lower.Format(dateLayout)
	if !lower.Equal(lower.Truncate(24 * time.Hour)) {
		bound = lower.UTC().Format(jqlMinuteLayout)
	}
	return fmt.Sprintf("updated >= '%s' order by updated asc", bound)
}

// Records pages through the issue search and emits each issue flattened to a single level
func (s *IssuesStream) Records(ctx context.Context, x Extraction, emit Emit) error {
	dateTimeFields := map[string]bool{}
	for _, prop := range x.Schema {
		if prop.Type.Format() == schema.DateTimeType.Format() {
			dateTimeFields[prop.Name] = true
		}
	}

	jql := JQL(s.LowerBound(x))
	log.WithFields(log.Fields{"stream": s.name, "jql": jql}).Info("searching issues")

	for offset := 0; ; offset += pageSize {
		issues, err := s.conn.API.SearchIssues(ctx, jql, offset, pageSize)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"stream": s.name, "offset": offset, "records": len(issues)}).Debug("page")
		if len(issues) == 0 {
			return nil
		}

		for _, issue := range issues {
			record, err := flattenIssue(issue, dateTimeFields)
			if err != nil {
				return fmt.Errorf("error flattening issue %s: %w", issue.Key, err)
			}

			if err := emit(record); err != nil {
				return err
			}
		}
	}
}

// flattenIssue drops empty fields, encodes non-string values as JSON text and injects issueId and key
func flattenIssue(issue jira.Issue, dateTimeFields map[string]bool) (map[string]interface{}, error) {
	record := make(map[string]interface{}, len(issue.Fields)+2)

	for name, value := range issue.Fields {
		if util.IsEmpty(value) {
			continue
		}

		if dateTimeFields[name] {
			if s, ok := value.(string); ok {
				if t, err := ParseTimestamp(s); err == nil {
					record[name] = t.UTC().Format(time.RFC3339Nano)
					continue
				}
			}
		}

		encoded, err := encodeField(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		record[name] = encoded
	}

	record["issueId"] = issue.ID
	record["key"] = issue.Key
	return record, nil
}

func encodeField(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
}

// ParseTimestamp parses the timestamp formats Jira and the state file use
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
