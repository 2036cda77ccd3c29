/*
 * Copyright (c) 2025, Psiphon Inc.
 * All rights reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package endpoint

import (
	"io"
	go_log "log"
	"os"

	"github.com/Psiphon-Labs/clack/clack/common/stacktrace"
	"github.com/sirupsen/logrus"
)

// ContextLogger adds context logging functionality to the
// underlying logging package.
type ContextLogger struct {
	*logrus.Logger
}

// LogFields is an alias for the field struct in the
// underlying logging package.
type LogFields logrus.Fields

// WithContext adds a "context" field containing the caller's function
// name. Use this function when the log has no fields.
func (logger *ContextLogger) WithContext() *logrus.Entry {
	return logger.WithFields(
		logrus.Fields{
			"context": stacktrace.GetParentFunctionName(),
		})
}

// WithContextFields adds a "context" field containing the caller's
// function name. Use this function when the log has fields. Note that any
// existing "context" field will be renamed to "fields.context".
func (logger *ContextLogger) WithContextFields(fields LogFields) *logrus.Entry {
	_, ok := fields["context"]
	if ok {
		fields["fields.context"] = fields["context"]
	}
	fields["context"] = stacktrace.GetParentFunctionName()
	return logger.WithFields(logrus.Fields(fields))
}

var log *ContextLogger

// InitLogging resets the package logger with the configured level,
// logging JSON lines to stderr. Call before starting a Server or Client.
func InitLogging(logLevel string) error {

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	log = &ContextLogger{
		&logrus.Logger{
			Out:       os.Stderr,
			Formatter: &logrus.JSONFormatter{},
			Hooks:     make(logrus.LevelHooks),
			Level:     level,
		},
	}

	return nil
}

func init() {

	// Suppress standard "log" package logging performed by other packages.
	go_log.SetOutput(io.Discard)

	log = &ContextLogger{
		&logrus.Logger{
			Out:       os.Stderr,
			Formatter: &logrus.JSONFormatter{},
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.DebugLevel,
		},
	}
}
