// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

func NewLogger(level string) *Logger {
	logger := newZapLogger(level)

	return &Logger{
		SugaredLogger: logger.Sugar(),
		security:      NewSecurityLogger(logger),
	}
}

func newZapLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(err.Error())
	}

	return logger
}

// parseLevel falls back to the error level on unrecognized input.
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.ErrorLevel
	}

	return l
}
