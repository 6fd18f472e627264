package adapter

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger adapts a zap logger to the go-kit log.Logger interface, for
// collaborators that still speak go-kit logging, such as the logfmt
// annotation reporter.
type Logger struct {
	*zap.Logger
}

// Log pairs keyvals into zap fields and emits them at info level.  Non-string
// keys are stringified, and a trailing key with no value is recorded against
// "(MISSING)".
func (l Logger) Log(keyvals ...interface{}) error {
	fields := make([]zap.Field, 0, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}

		var value interface{} = "(MISSING)"
		if i+1 < len(keyvals) {
			value = keyvals[i+1]
		}

		fields = append(fields, zap.Any(key, value))
	}

	l.Logger.Info("", fields...)
	return nil
}
