package model

import (
	"errors"
	"strings"
)

// Sentinel errors for the intake core. Handlers map these to HTTP
// status codes; services wrap them with context via %w.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrOutOfOrderAnswer    = errors.New("answer is not for the current pending question")
	ErrInvalidAnswer       = errors.New("answer value violates question constraints")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrSessionNotCompleted = errors.New("session not completed")
	ErrReportMalformed     = errors.New("malformed report response")
	ErrReportNotFound      = errors.New("report not found")
)

// SchemaError reports catalog/decision-tree integrity violations found
// at load time. The load is all-or-nothing; every violation is listed.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "catalog schema invalid: " + strings.Join(e.Violations, "; ")
}
