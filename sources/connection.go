package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/5amCurfew/tap-jira/jira"
	"github.com/5amCurfew/tap-jira/models"
	log "github.com/sirupsen/logrus"
)

// API is the subset of the Jira client the streams depend on
type API interface {
	Myself(ctx context.Context) (map[string]interface{}, error)
	SearchUsers(ctx context.Context, query string, startAt, maxResults int) ([]map[string]interface{}, error)
	User(ctx context.Context, accountID, expand string) (map[string]interface{}, error)
	Projects(ctx context.Context) ([]map[string]interface{}, error)
	Fields(ctx context.Context) ([]jira.Field, error)
	SearchIssues(ctx context.Context, jql string, startAt, maxResults int) ([]jira.Issue, error)
}

// Connection is the session shared by the streams of one run
type Connection struct {
	API       API
	StartDate time.Time
}

// NewConnection builds the Jira session and parses start_date without calling the API
func NewConnection(cfg models.Config) (*Connection, error) {
	startDate, err := models.ParseStartDate(cfg.StartDate)
	if err != nil {
		return nil, err
	}

	client := jira.New(jira.Config{
		BaseURL:           cfg.URL(),
		Username:          cfg.Username,
		Password:          cfg.Password,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		MaxRetries:        cfg.MaxRetries,
	})

	return &Connection{API: client, StartDate: startDate}, nil
}

// Connect builds the session and verifies the credentials against the instance
func Connect(ctx context.Context, cfg models.Config) (*Connection, error) {
	conn, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := conn.Verify(ctx); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"url":        cfg.URL(),
		"start_date": conn.StartDate.Format(dateLayout),
	}).Info("connected to jira")

	return conn, nil
}

// Verify checks that the credentials are accepted
func (c *Connection) Verify(ctx context.Context) error {
	if _, err := c.API.Myself(ctx); err != nil {
		return fmt.Errorf("error authenticating with jira: %w", err)
	}
	return nil
}
