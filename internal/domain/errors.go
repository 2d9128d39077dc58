// Package domain holds sentinel errors shared across use cases and transports.
package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRuleSet signals a malformed scoring policy.
	ErrInvalidRuleSet = errors.New("invalid rule set")
	// ErrRuleSetActive signals an operation refused on the active rule set.
	ErrRuleSetActive = errors.New("rule set is active")
	// ErrNoActiveRuleSet signals that no rule set has been activated.
	ErrNoActiveRuleSet = errors.New("no active rule set")
	// ErrResultNotFound signals a missing scoring result.
	ErrResultNotFound = errors.New("scoring result not found")
	// ErrExtractorError signals an extraction pipeline failure.
	ErrExtractorError = errors.New("extractor error")
)
