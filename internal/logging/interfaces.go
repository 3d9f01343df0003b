// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

//go:generate mockgen -build_flags=--mod=mod -package logging -destination ./mock_logger.go -source=./interfaces.go

type LoggerInterface interface {
	Error(args ...interface{})
	Warn(args ...interface{})
	Info(args ...interface{})
	Debug(args ...interface{})
	Fatal(args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Debugf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface emits audit events following the OWASP logging
// vocabulary.
type SecurityLoggerInterface interface {
	SystemStartup()
	SystemShutdown()
	AuthnFailure(subject string)
	AuthzFailure(subject, resource string)
}
