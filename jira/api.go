package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Field describes one issue field known to the instance
type Field struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// FieldKey returns the key of the field, falling back to its id on servers that omit keys
func (f Field) FieldKey() string {
	if f.Key != "" {
		return f.Key
	}
	return f.ID
}

// Issue is a search hit with its raw field map
type Issue struct {
	ID     string                 `json:"id"`
	Key    string                 `json:"key"`
	Self   string                 `json:"self"`
	Fields map[string]interface{} `json:"fields"`
}

type searchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

func pageQuery(startAt, maxResults int) url.Values {
	query := url.Values{}
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(maxResults))
	return query
}

// Myself fetches the authenticated user
func (c *Client) Myself(ctx context.Context) (map[string]interface{}, error) {
	var user map[string]interface{}
	if err := c.get(ctx, "/myself", nil, &user); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return user, nil
}

// SearchUsers returns one page of users matching query
func (c *Client) SearchUsers(ctx context.Context, search string, startAt, maxResults int) ([]map[string]interface{}, error) {
	query := pageQuery(startAt, maxResults)
	query.Set("query", search)

	var users []map[string]interface{}
	if err := c.get(ctx, "/user/search", query, &users); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// User fetches a single user by account id, with optional expansions such as "groups"
func (c *Client) User(ctx context.Context, accountID, expand string) (map[string]interface{}, error) {
	query := url.Values{}
	query.Set("accountId", accountID)
	if expand != "" {
		query.Set("expand", expand)
	}

	var user map[string]interface{}
	if err := c.get(ctx, "/user", query, &user); err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", accountID, err)
	}
	return user, nil
}

// Projects lists all projects visible to the user in one call
func (c *Client) Projects(ctx context.Context) ([]map[string]interface{}, error) {
	var projects []map[string]interface{}
	if err := c.get(ctx, "/project", nil, &projects); err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	return projects, nil
}

// Fields lists every issue field known to the instance
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.get(ctx, "/field", nil, &fields); err != nil {
		return nil, fmt.Errorf("fetch fields: %w", err)
	}
	return fields, nil
}

// SearchIssues returns one page of issues matching jql
func (c *Client) SearchIssues(ctx context.Context, jql string, startAt, maxResults int) ([]Issue, error) {
	query := pageQuery(startAt, maxResults)
	query.Set("jql", jql)

	var result searchResult
	if err := c.get(ctx, "/search", query, &result); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return result.Issues, nil
}
