package log

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// WireWarnings routes library warnings (ConvergenceWarning,
// UndefinedMetricWarning, ...) through a zerolog logger so they appear as
// structured events instead of plain log lines. Warning types that implement
// zerolog.LogObjectMarshaler are embedded as objects.
func WireWarnings() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.Object("warning", m)
		} else {
			ev.Str("warning", warning.Error())
		}
		ev.Msg("evalgo warning")
	})
}
