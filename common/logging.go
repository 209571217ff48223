package common

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Component names used as structured log fields so output from a single run
// can be filtered per subsystem
const (
	LogBacktest   = "backtest"
	LogConfig     = "config"
	LogData       = "data"
	LogStatistics = "statistics"
	LogStrategy   = "strategy"
	LogOptimize   = "optimize"
)

// SetupLogger configures the process wide logger. Level accepts the usual
// logrus names; anything unparseable falls back to info
func SetupLogger(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: SimpleTimeFormat,
	})
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Log returns a logger entry tagged with the supplied component
func Log(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
