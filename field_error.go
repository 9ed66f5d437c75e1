package asyncrx

import (
	"errors"
	"fmt"
)

// FieldError exposes correlation metadata for a folded Message failure: which
// state field the combinator was writing to, and which combinator phase
// produced it. The direct generalization of the teacher's
// taskTaggedError/TaskMetaError surface (error_tagging.go) from
// task-id/index correlation to field-name/phase correlation.
type FieldError interface {
	error
	Unwrap() error
	Field() (string, bool)
	Phase() (string, bool)
}

type fieldTaggedError struct {
	err   error
	field string
	phase string
}

func newFieldError(err error, field, phase string) error {
	if err == nil {
		return nil
	}
	if field == "" && phase == "" {
		return err
	}
	return &fieldTaggedError{err: err, field: field, phase: phase}
}

func (e *fieldTaggedError) Error() string { return e.err.Error() }
func (e *fieldTaggedError) Unwrap() error { return e.err }

func (e *fieldTaggedError) Field() (string, bool) {
	if e.field == "" {
		return "", false
	}
	return e.field, true
}

func (e *fieldTaggedError) Phase() (string, bool) {
	if e.phase == "" {
		return "", false
	}
	return e.phase, true
}

func (e *fieldTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "field(name=%q,phase=%q): %+v", e.field, e.phase, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractField returns the field name recorded on err, if any combinator
// tagged it via a folded Failure{Message(...)}.
func ExtractField(err error) (string, bool) {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe.Field()
	}
	return "", false
}

// ExtractPhase returns the combinator phase name (e.g. "Execute",
// "ExecuteAsyncCancellable") recorded on err, if any.
func ExtractPhase(err error) (string, bool) {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe.Phase()
	}
	return "", false
}
