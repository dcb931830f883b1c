package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesListToMap(t *testing.T) {
	properties := PropertiesList(
		Property("key", StringType, Description("Jira issue key")),
		Property("updated", DateTimeType),
		Property("groups", ObjectType(
			Property("size", IntegerType),
			Property("items", ArrayType(ObjectType(Property("name", StringType)))),
		)),
	)

	data, err := json.Marshal(properties.ToMap())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"key": {"type": ["string", "null"], "description": "Jira issue key"},
			"updated": {"type": ["string", "null"], "format": "date-time"},
			"groups": {
				"type": ["object", "null"],
				"properties": {
					"size": {"type": ["integer", "null"]},
					"items": {
						"type": ["array", "null"],
						"items": {
							"type": ["object", "null"],
							"properties": {"name": {"type": ["string", "null"]}}
						}
					}
				}
			}
		}
	}`, string(data))
}

func TestPropertiesNamesAndGet(t *testing.T) {
	properties := PropertiesList(
		Property("issueId", StringType),
		Property("updated", DateTimeType),
	)

	assert.Equal(t, []string{"issueId", "updated"}, properties.Names())

	prop, ok := properties.Get("updated")
	require.True(t, ok)
	assert.Equal(t, "date-time", prop.Type.Format())

	_, ok = properties.Get("missing")
	assert.False(t, ok)
}

func TestRequiredProperties(t *testing.T) {
	properties := PropertiesList(
		Property("username", StringType, Required()),
		Property("start_date", DateType),
	)

	assert.Equal(t, []interface{}{"username"}, properties.ToMap()["required"])
}
