package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/5amCurfew/tap-jira/models"
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const stateTable = "tap_jira_state"

// SQLStore keeps one row per stream bookmark in the tap_jira_state table
type SQLStore struct {
	db     *sql.DB
	dbType string
}

// OpenSQL connects to the database named by a postgres://, mysql://, sqlite://, file:// or sqlserver:// URL
func OpenSQL(url string) (*SQLStore, error) {
	dbType, address, err := extractDatabaseTypeFromUrl(url)
	if err != nil {
		return nil, fmt.Errorf("unsupported state url: %w", err)
	}

	db, err := sql.Open(dbType, address)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.WithFields(log.Fields{"driver": dbType}).Info("using database state store")
	return &SQLStore{db: db, dbType: dbType}, nil
}

func (s *SQLStore) init(ctx context.Context) error {
	columns := "stream VARCHAR(255) NOT NULL PRIMARY KEY, replication_key VARCHAR(255), replication_key_value VARCHAR(64), updated_at VARCHAR(64)"

	var ddl string
	switch s.dbType {
	case "sqlserver":
		ddl = fmt.Sprintf("IF OBJECT_ID('%[1]s', 'U') IS NULL CREATE TABLE %[1]s (%[2]s)", stateTable, columns)
	default:
		ddl = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", stateTable, columns)
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("error creating %s: %w", stateTable, err)
	}
	return nil
}

func (s *SQLStore) Read(ctx context.Context) (*models.State, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT stream, replication_key, replication_key_value, updated_at FROM %s", stateTable))
	if err != nil {
		return nil, fmt.Errorf("error querying state: %w", err)
	}
	defer rows.Close()

	state := models.NewState()
	for rows.Next() {
		var stream string
		var key, value, updatedAt sql.NullString
		if err := rows.Scan(&stream, &key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("error scanning state row: %w", err)
		}
		state.Bookmarks[stream] = models.Bookmark{
			ReplicationKey:      key.String,
			ReplicationKeyValue: value.String,
			UpdatedAt:           updatedAt.String,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading state rows: %w", err)
	}
	return state, nil
}

// Write replaces the stored bookmarks with those of state in one transaction
func (s *SQLStore) Write(ctx context.Context, state *models.State) error {
	if err := s.init(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting state transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", stateTable)); err != nil {
		return fmt.Errorf("error clearing state: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (stream, replication_key, replication_key_value, updated_at) VALUES (%s, %s, %s, %s)",
		stateTable, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4),
	)
	for stream, bookmark := range state.Bookmarks {
		if _, err := tx.ExecContext(ctx, insert, stream, bookmark.ReplicationKey, bookmark.ReplicationKeyValue, bookmark.UpdatedAt); err != nil {
			return fmt.Errorf("error writing %s bookmark: %w", stream, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing state: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) placeholder(n int) string {
	switch s.dbType {
	case "postgres":
		return fmt.Sprintf("$%d", n)
	case "sqlserver":
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}

// extractDatabaseTypeFromUrl maps a URL scheme to a database/sql driver and its data source name
func extractDatabaseTypeFromUrl(url string) (string, string, error) {
	splitUrl := strings.SplitN(url, "://", 2)
	if len(splitUrl) != 2 {
		return "", "", fmt.Errorf("invalid db URL: %s", url)
	}

	switch splitUrl[0] {
	case "postgres", "postgresql":
		return "postgres", url, nil
	case "mysql":
		return "mysql", splitUrl[1], nil
	case "sqlite", "file":
		return "sqlite3", strings.TrimPrefix(splitUrl[1], "/"), nil
	case "sqlserver":
		return "sqlserver", url, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", splitUrl[0])
	}
}
