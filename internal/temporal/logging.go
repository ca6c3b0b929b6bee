package temporal

import (
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/log"
)

// zerologAdapter bridges the Temporal SDK logger onto zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) log.Logger {
	return &zerologAdapter{
		logger: logger.With().Str("component", "temporal-sdk").Logger(),
	}
}

func (a *zerologAdapter) withKeyvals(event *zerolog.Event, keyvals ...interface{}) *zerolog.Event {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = "INVALID_KEY"
		}
		event = event.Interface(key, keyvals[i+1])
	}
	return event
}

func (a *zerologAdapter) Debug(msg string, keyvals ...interface{}) {
	a.withKeyvals(a.logger.Debug(), keyvals...).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, keyvals ...interface{}) {
	a.withKeyvals(a.logger.Info(), keyvals...).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, keyvals ...interface{}) {
	a.withKeyvals(a.logger.Warn(), keyvals...).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, keyvals ...interface{}) {
	a.withKeyvals(a.logger.Error(), keyvals...).Msg(msg)
}
