package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "04:05.000"

// New builds a sugared logger at the given level ("debug", "info", "warn", "error").
// Development loggers write console lines with the short time layout
func New(level string, development bool) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

func NewSimpleLogger(debug bool) *zap.SugaredLogger {
	level := "info"
	if debug {
		level = "debug"
	}
	log, err := New(level, true)
	if err != nil {
		panic(err)
	}
	return log
}
