package sources

import (
	"fmt"
	"time"

	"github.com/5amCurfew/tap-jira/models"
)

// Cursor tracks the high-water mark of a stream's replication key
type Cursor struct {
	stream string
	key    string
	max    time.Time
	seen   bool
}

func NewCursor(s Stream) *Cursor {
	return &Cursor{stream: s.Name(), key: s.ReplicationKey()}
}

// Observe records the replication key value of an emitted record
func (c *Cursor) Observe(record map[string]interface{}) error {
	if c.key == "" {
		return nil
	}

	raw, ok := record[c.key].(string)
	if !ok {
		return nil
	}

	t, err := ParseTimestamp(raw)
	if err != nil {
		return fmt.Errorf("error reading %s.%s: %w", c.stream, c.key, err)
	}

	if !c.seen || t.After(c.max) {
		c.max = t
		c.seen = true
	}
	return nil
}

// Commit advances the stream bookmark to the highest value observed
func (c *Cursor) Commit(state *models.State) bool {
	if !c.seen {
		return false
	}
	return state.Advance(c.stream, c.key, c.max)
}
