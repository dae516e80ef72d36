// Package cmdlog wraps top-level CLI commands with run/error metrics
// and a structured completion line.
package cmdlog

import (
	"time"

	"scenerank/internal/logging"
	"scenerank/internal/metrics"
)

// Run executes f, counting the invocation and any failure under cmd and
// logging how the command ended. The error is returned unchanged.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()

	err := f()
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		metrics.IncCommandError(cmd)
		logging.Error(cmd+"_failed", map[string]any{"error": err.Error(), "elapsed": elapsed.String()})
		return err
	}
	logging.Info(cmd+"_done", map[string]any{"elapsed": elapsed.String()})
	return nil
}
