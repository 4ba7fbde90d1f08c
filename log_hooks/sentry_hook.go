package log_hooks

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// DefaultLevels is what the edge reports to Sentry. Debug and info
// entries stay local: the gate debug-logs every auth attempt, and
// shipping that volume upstream would bury real problems.
var DefaultLevels = []log.Level{
	log.WarnLevel,
	log.ErrorLevel,
	log.FatalLevel,
	log.PanicLevel,
}

// SentryHook forwards matching log entries to Sentry. Entries are
// already credential-free by the time they reach the logger, so the
// full rendered line is safe to ship.
type SentryHook struct {
	LogLevels []log.Level
}

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{LogLevels: levels}
}

func (s *SentryHook) Levels() []log.Level {
	return s.LogLevels
}

func (s *SentryHook) Fire(entry *log.Entry) error {
	msg, err := entry.String()
	if err != nil {
		return fmt.Errorf("failed to get entry string - %w", err)
	}

	entry.WithField("sentry_event_id", sentry.CaptureMessage(msg))
	return nil
}
