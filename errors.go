package primme

import (
	"fmt"

	"github.com/pkg/errors"
)

// TraceEntry records one propagation site of a failure, mirroring the
// original's error-trace stack (spec.md §7, §9) but scoped per-solve.
type TraceEntry struct {
	Site     string
	File     string
	Line     int
	Subsystem string
	Code     int
}

// Kind identifies one of the error kinds of spec.md §7.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindAllocationFailure
	KindNumericalFailure
	KindStagnationFailure
	KindConvergenceAborted
	KindCallbackFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindAllocationFailure:
		return "allocation failure"
	case KindNumericalFailure:
		return "numerical failure"
	case KindStagnationFailure:
		return "stagnation failure"
	case KindConvergenceAborted:
		return "convergence aborted"
	case KindCallbackFailure:
		return "callback failure"
	default:
		return "unknown"
	}
}

// SolveError is the error type returned by Solve and SizeQuery. Field is
// populated for KindInvalidInput so a caller can tell which parameter was
// out of range (spec.md §7: "each specific field documented").
type SolveError struct {
	Kind    Kind
	Field   string
	Code    int
	Message string
}

func (e *SolveError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("primme: %s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("primme: %s: %s", e.Kind, e.Message)
}

func invalidInputf(field, format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindInvalidInput, Field: field, Code: -4, Message: fmt.Sprintf(format, args...)})
}

func numericalFailuref(code int, format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindNumericalFailure, Code: code, Message: fmt.Sprintf(format, args...)})
}

func stagnationFailuref(format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindStagnationFailure, Message: fmt.Sprintf(format, args...)})
}

func convergenceAbortedf(format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindConvergenceAborted, Message: fmt.Sprintf(format, args...)})
}

func callbackFailuref(format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindCallbackFailure, Message: fmt.Sprintf(format, args...)})
}

func allocationFailuref(format string, args ...interface{}) error {
	return errors.WithStack(&SolveError{Kind: KindAllocationFailure, Message: fmt.Sprintf(format, args...)})
}

// trace appends a TraceEntry to p.Trace and returns err wrapped with site
// as context, in the style the teacher wraps every returned error with
// errors.Wrap(err, "").
func (p *Params) trace(site string, code int, err error) error {
	if err == nil {
		return nil
	}
	p.Trace = append(p.Trace, TraceEntry{Site: site, Subsystem: site, Code: code})
	return errors.Wrap(err, site)
}
