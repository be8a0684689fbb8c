package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevelEnv names the environment variable that overrides the log level.
const LogLevelEnv = "SCANQUOTE_LOG_LEVEL"

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(levelFromEnv(os.Getenv(LogLevelEnv)))
	logg.SetOutput(os.Stdout)
}

// levelFromEnv parses a level name, falling back to info when it is empty
// or unknown.
func levelFromEnv(v string) logrus.Level {
	v = strings.TrimSpace(v)
	if v == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(v)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
