package asyncrx

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger used for internal diagnostics: reducer and
// observer panics. It is treated the same way the
// teacher treats metrics.Provider: an optional collaborator, swappable via
// WithLogger, nil-safe when not configured.
//
// stumpy is the "model" logiface backend (see its doc.go); there is no
// logging library anywhere in the teacher itself, so this is adopted from
// the wider example pack rather than generalized from teacher code (see
// DESIGN.md).
type Logger = *logiface.Logger[*stumpy.Event]

func defaultLogger() Logger {
	return stumpy.L.New()
}

func logWarn(l Logger, msg string, err error) {
	if l == nil {
		return
	}
	b := l.Warning()
	if err != nil {
		b = b.Err(err)
	}
	b.Log(msg)
}
