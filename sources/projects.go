package sources

import (
	"context"
	"fmt"

	"github.com/5amCurfew/tap-jira/schema"
)

var projectsSchema = schema.PropertiesList(
	schema.Property("name", schema.StringType),
	schema.Property("key", schema.StringType),
	schema.Property("self", schema.StringType, schema.Description("The URL this record was sourced from")),
	schema.Property("projectId", schema.StringType),
	schema.Property("projectCategory", schema.ObjectType(
		schema.Property("name", schema.StringType),
		schema.Property("self", schema.StringType),
		schema.Property("description", schema.StringType),
		schema.Property("id", schema.StringType),
	)),
	schema.Property("projectTypeKey", schema.StringType),
	schema.Property("simplified", schema.BooleanType),
	schema.Property("classic", schema.StringType),
	schema.Property("archived", schema.BooleanType),
	schema.Property("archivedDate", schema.DateTimeType),
	schema.Property("archivedBy", schema.ObjectType(
		schema.Property("displayName", schema.StringType),
		schema.Property("self", schema.StringType),
		schema.Property("active", schema.BooleanType),
		schema.Property("accountId", schema.StringType),
	)),
)

// ProjectsStream emits every project from a single unpaged listing
type ProjectsStream struct {
	stream
}

func NewProjectsStream(conn *Connection) *ProjectsStream {
	return &ProjectsStream{stream{conn: conn, name: "projects", keyProperties: []string{"projectId"}}}
}

func (s *ProjectsStream) Schema(ctx context.Context) (schema.Properties, error) {
	return projectsSchema, nil
}

// Records emits each project with id renamed to projectId
func (s *ProjectsStream) Records(ctx context.Context, x Extraction, emit Emit) error {
	projects, err := s.conn.API.Projects(ctx)
	if err != nil {
		return err
	}

	for _, project := range projects {
		id, ok := project["id"]
		if !ok {
			return fmt.Errorf("project %v has no id", project["key"])
		}
		delete(project, "id")
		project["projectId"] = id

		if err := emit(project); err != nil {
			return err
		}
	}

	return nil
}
