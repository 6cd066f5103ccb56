package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shorturl-go/pkg/logging"
)

// New returns a stopped cron running the log file rotation on spec.
// An empty spec schedules nothing.
func New(spec string, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger)))
	if spec == "" {
		return c, nil
	}

	_, err := c.AddFunc(spec, func() {
		if err := logging.Rotate(); err != nil {
			logger.Error("Failed to rotate log file", zap.Error(err))
			return
		}
		logger.Info("Log file rotated")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule log rotation %q: %w", spec, err)
	}
	return c, nil
}
