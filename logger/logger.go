package logger

import (
	"os"

	"go.uber.org/zap"
)

var Log *zap.Logger = getLogger()

// Fatal is a variable so tests can intercept it (see testutil.WithEnv).
var Fatal = func(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

func getLogger() *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if os.Getenv("ENV") == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}

	if err != nil {
		panic("Unable to get zapper: " + err.Error())
	}
	return log
}

func Get() *zap.Logger {
	return Log
}

// Named returns a child of the global logger scoped to a component.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
