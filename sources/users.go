package sources

import (
	"context"
	"fmt"

	"github.com/5amCurfew/tap-jira/schema"
	log "github.com/sirupsen/logrus"
)

const userSearchQuery = ".*"

var usersSchema = schema.PropertiesList(
	schema.Property("name", schema.StringType),
	schema.Property("key", schema.StringType),
	schema.Property("self", schema.StringType, schema.Description("The URL this record was sourced from")),
	schema.Property("accountId", schema.StringType),
	schema.Property("accountType", schema.StringType),
	schema.Property("emailAddress", schema.StringType),
	schema.Property("displayName", schema.StringType),
	schema.Property("active", schema.BooleanType),
	schema.Property("timeZone", schema.StringType),
	schema.Property("locale", schema.StringType),
	schema.Property("groups", schema.ObjectType(
		schema.Property("size", schema.IntegerType),
		schema.Property("items", schema.ArrayType(schema.ObjectType(
			schema.Property("name", schema.StringType),
			schema.Property("self", schema.StringType),
			schema.Property("groupId", schema.StringType),
		))),
	)),
)

// UsersStream emits every user with its group membership; always a full resync
type UsersStream struct {
	stream
}

func NewUsersStream(conn *Connection) *UsersStream {
	return &UsersStream{stream{conn: conn, name: "users", keyProperties: []string{"accountId"}}}
}

func (s *UsersStream) Schema(ctx context.Context) (schema.Properties, error) {
	return usersSchema, nil
}

// Records pages through user search and emits the expanded detail record of each hit
func (s *UsersStream) Records(ctx context.Context, x Extraction, emit Emit) error {
	for offset := 0; ; offset += pageSize {
		hits, err := s.conn.API.SearchUsers(ctx, userSearchQuery, offset, pageSize)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"stream": s.name, "offset": offset, "records": len(hits)}).Debug("page")
		if len(hits) == 0 {
			return nil
		}

		for _, hit := range hits {
			accountID, ok := hit["accountId"].(string)
			if !ok || accountID == "" {
				return fmt.Errorf("user search result at offset %d has no accountId", offset)
			}

			user, err := s.conn.API.User(ctx, accountID, "groups")
			if err != nil {
				return err
			}

			if err := emit(user); err != nil {
				return err
			}
		}
	}
}
