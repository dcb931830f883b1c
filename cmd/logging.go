package cmd

import (
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type runHook struct {
	runID string
}

func (h runHook) Levels() []log.Level {
	return log.AllLevels
}

func (h runHook) Fire(entry *log.Entry) error {
	entry.Data["run_id"] = h.runID
	return nil
}

// ConfigureLogging sends JSON logs to stderr, each tagged with a fresh run id which is returned
func ConfigureLogging(verbose bool) string {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	runID := uuid.NewString()
	log.AddHook(runHook{runID: runID})
	return runID
}
