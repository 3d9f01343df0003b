// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// SecurityLogger produces audit records for security relevant events, with
// event identifiers taken from the OWASP logging vocabulary.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "sys_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "sys_shutdown"))
}

func (s *SecurityLogger) AuthnFailure(subject string) {
	s.l.Warn(
		"authentication failure",
		zap.String("event", fmt.Sprintf("authn_fail:%s", subject)),
	)
}

func (s *SecurityLogger) AuthzFailure(subject, resource string) {
	s.l.Warn(
		"authorization failure",
		zap.String("event", fmt.Sprintf("authz_fail:%s,%s", subject, resource)),
	)
}

func NewSecurityLogger(logger *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: logger.Named("security")}
}
