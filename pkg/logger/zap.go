package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	envtypes "github.com/openshift-online/watchdog/cmd/watchdog/environments/types"
)

// the zap logger is a process wide singleton so the level can be changed at runtime
// from the cobra flags after the first component grabbed it.
var (
	zapOnce     sync.Once
	zapLogLevel zap.AtomicLevel
	zapLogger   *zap.SugaredLogger
)

// GetLogger returns the singleton logger, development environments log at debug level.
func GetLogger() *zap.SugaredLogger {
	zapOnce.Do(func() {
		zapLogLevel = zap.NewAtomicLevel()
		zapConfig := zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
		zapConfig.Encoding = "console"
		if envtypes.GetEnvironmentStrFromEnv() == envtypes.DevelopmentEnv {
			zapLogLevel.SetLevel(zapcore.DebugLevel)
		} else {
			zapLogLevel.SetLevel(zapcore.InfoLevel)
		}
		zapConfig.Level = zapLogLevel
		zlog, err := zapConfig.Build()
		if err != nil {
			panic(err)
		}
		zapLogger = zlog.Sugar()
	})
	return zapLogger
}

// Named returns a child of the singleton logger tagged with the component name.
func Named(component string) *zap.SugaredLogger {
	return GetLogger().Named(component)
}

// SetLogLevel sets the log level for the logger.
func SetLogLevel(level string) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		GetLogger().Errorf("failed to parse log level: %v", err)
		return
	}
	zapLogLevel.SetLevel(zapLevel)
}

// GetLoggerLevel returns the current log level of the logger.
func GetLoggerLevel() string {
	GetLogger()
	return zapLogLevel.String()
}

// SyncLogger flushes any buffered log entries.
// This should be called before the application exits.
func SyncLogger() {
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}
