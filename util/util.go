package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
)

// WriteJSON writes v to fileName as indented JSON
func WriteJSON(fileName string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", fileName, err)
	}

	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", fileName, err)
	}

	return nil
}

// IsEmpty reports whether a decoded JSON value is null, false, zero, or an empty string, array or object
func IsEmpty(v interface{}) bool {
	if v == nil {
		return true
	}

	switch value := v.(type) {
	case string:
		return value == ""
	case bool:
		return !value
	case float64:
		return value == 0
	case json.Number:
		f, err := value.Float64()
		return err == nil && f == 0
	case []interface{}:
		return len(value) == 0
	case map[string]interface{}:
		return len(value) == 0
	}

	return reflect.ValueOf(v).IsZero()
}
