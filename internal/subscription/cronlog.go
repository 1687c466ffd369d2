package subscription

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes the scheduler's own messages (skipped runs, recovered
// panics) through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func newCronLogger(logger *zap.Logger) cronLogger {
	return cronLogger{logger: logger.Named("cron").Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

var _ cron.Logger = cronLogger{}
