package domain

import (
	"errors"
	"fmt"
)

// ErrRequestMalformed is returned when a request cannot be decoded or lacks
// a required field.
var ErrRequestMalformed = errors.New("malformed fix request")

// RuleExecutionError reports a failure raised while a rule was rewriting code.
// The whole request is aborted; there is no fallback to a no-op.
type RuleExecutionError struct {
	Rule  string
	Cause error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("rule %s failed: %v", e.Rule, e.Cause)
}

func (e *RuleExecutionError) Unwrap() error { return e.Cause }
