package matchengine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// ErrorKind tags a MatchError with one of the seven error kinds spec.md §7
// enumerates, so callers can branch on category without string matching.
type ErrorKind string

const (
	// KindConfig — fatal; surfaced to the caller. Exit code 1.
	KindConfig ErrorKind = "config_error"
	// KindStoreConnectivity — fatal; surfaced to the caller. Exit code 2.
	KindStoreConnectivity ErrorKind = "store_connectivity_error"
	// KindMalformedTrial — logged, trial skipped.
	KindMalformedTrial ErrorKind = "malformed_trial"
	// KindUnknownTransform — fatal; indicates miswired configuration.
	KindUnknownTransform ErrorKind = "unknown_transform"
	// KindSkipCriterion — swallowed by the translator.
	KindSkipCriterion ErrorKind = "skip_criterion"
	// KindQueryTimeout — path abandoned with a warning.
	KindQueryTimeout ErrorKind = "query_timeout"
	// KindTransientStore — path abandoned with a warning.
	KindTransientStore ErrorKind = "transient_store_error"
)

// MatchError is the single error type used across the pipeline. Its Kind
// drives the propagation policy from spec.md §7: fatal kinds stop the run,
// the rest degrade the current trial or path only.
type MatchError struct {
	Kind    ErrorKind
	Message string
	Trial   string // protocol_no, when known
	Path    string // rendered match-path cursor, when known
	Cause   error
}

func (e *MatchError) Error() string {
	var loc string
	switch {
	case e.Trial != "" && e.Path != "":
		loc = fmt.Sprintf(" (trial %s, path %s)", e.Trial, e.Path)
	case e.Trial != "":
		loc = fmt.Sprintf(" (trial %s)", e.Trial)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s%s: %v", e.Kind, e.Message, loc, e.Cause)
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Message, loc)
}

func (e *MatchError) Unwrap() error {
	return e.Cause
}

// Fatal reports whether this error kind stops the whole pipeline run
// rather than just the current trial or path.
func (e *MatchError) Fatal() bool {
	return e.Kind == KindConfig || e.Kind == KindStoreConnectivity || e.Kind == KindUnknownTransform
}

func newError(kind ErrorKind, message string, cause error) *MatchError {
	return &MatchError{Kind: kind, Message: message, Cause: cause}
}

// NewConfigError reports a fatal misconfiguration of the transform
// configuration file or CLI invocation.
func NewConfigError(message string, cause error) *MatchError {
	return newError(KindConfig, message, cause)
}

// NewStoreConnectivityError reports that the document store is
// unreachable; fatal to the whole run.
func NewStoreConnectivityError(message string, cause error) *MatchError {
	return newError(KindStoreConnectivity, message, cause)
}

// NewMalformedTrialError reports a trial document that can't be parsed
// into the shape the extractor expects. The trial is skipped, not the run.
func NewMalformedTrialError(protocolNo, message string, cause error) *MatchError {
	e := newError(KindMalformedTrial, message, cause)
	e.Trial = protocolNo
	return e
}

// NewUnknownTransformError reports a trial key whose configured
// sample_value names a transform function absent from the registry — a
// miswired configuration, fatal per spec.md §4.5.
func NewUnknownTransformError(name string) *MatchError {
	return newError(KindUnknownTransform, fmt.Sprintf("unknown transform function %q", name), nil)
}

// SkipCriterion is returned by a transform function to signal "this
// predicate contributes nothing"; the translator drops it silently, per
// spec.md §4.5.
type SkipCriterion struct {
	Reason string
}

func (e SkipCriterion) Error() string {
	return fmt.Sprintf("criterion skipped: %s", e.Reason)
}

// IsSkipCriterion reports whether err is (or wraps) a SkipCriterion.
func IsSkipCriterion(err error) bool {
	var skip SkipCriterion
	return errors.As(err, &skip)
}

// NewQueryTimeoutError reports that a document-store query exceeded its
// configured deadline; the path is abandoned, not the trial or run.
func NewQueryTimeoutError(trial, path string, cause error) *MatchError {
	e := newError(KindQueryTimeout, "query deadline exceeded", cause)
	e.Trial, e.Path = trial, path
	return e
}

// NewTransientStoreError reports a retryable document-store failure; the
// path is abandoned with a warning, not the trial or run.
func NewTransientStoreError(trial, path string, cause error) *MatchError {
	e := newError(KindTransientStore, "transient store error", cause)
	e.Trial, e.Path = trial, path
	return e
}

// MultiError accumulates independent errors encountered while processing
// one trial (e.g. several malformed clauses), so the pipeline can report
// all of them instead of bailing out on the first.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s", err))
	}
	sort.Strings(lines)
	return ansi.Sprintf("@R{%d error(s) detected}:\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

// Append adds err to the accumulated set, flattening nested MultiErrors
// and ignoring nil.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if m, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, m.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// Count reports how many errors have been accumulated.
func (e *MultiError) Count() int {
	return len(e.Errors)
}

// ErrOrNil returns e as an error if it has accumulated anything, else nil.
func (e MultiError) ErrOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
