/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logutil formats command and key operation log lines as key=[value] pairs.
package logutil

import (
	"fmt"
	"strings"
)

// Logger is the part of the framework logger used by this package.
type Logger interface {
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// Field is a key/value pair appended to a log line.
type Field struct {
	Key   string
	Value string
}

// KV creates a Field, formatting val with %v.
func KV(key string, val interface{}) Field {
	return Field{Key: key, Value: fmt.Sprintf("%v", val)}
}

// LogError logs a failed action.
func LogError(logger Logger, command, action string, err error, fields ...Field) {
	logger.Errorf("%s errMsg=[%v]", Line(command, action, fields...), err)
}

// LogDebug logs an action at debug level.
func LogDebug(logger Logger, command, action string, fields ...Field) {
	logger.Debugf("%s", Line(command, action, fields...))
}

// LogInfo logs an action at info level.
func LogInfo(logger Logger, command, action string, fields ...Field) {
	logger.Infof("%s", Line(command, action, fields...))
}

// Line renders command, action and fields as "command=[c] action=[a] k=[v] ...".
func Line(command, action string, fields ...Field) string {
	var sb strings.Builder

	sb.WriteString(CreateKeyValueString("command", command))
	sb.WriteString(" ")
	sb.WriteString(CreateKeyValueString("action", action))

	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(CreateKeyValueString(f.Key, f.Value))
	}

	return sb.String()
}

// CreateKeyValueString creates a concatenated string.
func CreateKeyValueString(key, val string) string {
	return fmt.Sprintf("%s=[%s]", key, val)
}
