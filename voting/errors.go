// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
)

// Error kinds. Every error below wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

// Validation
var (
	ErrEmptyTitle        = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong      = fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	ErrNoCandidates      = fmt.Errorf("%w: at least one candidate is required", ErrValidation)
	ErrUnknownCategory   = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrNameTooLong       = fmt.Errorf("%w: candidate name must be at most %d characters", ErrValidation, MaxNameLength)
	ErrEmptySelections   = fmt.Errorf("%w: no selections submitted", ErrValidation)
	ErrMissingSelection  = fmt.Errorf("%w: a selection is required for every category", ErrValidation)
	ErrCategoryNotOpen   = fmt.Errorf("%w: category has no candidates in this session", ErrValidation)
	ErrCandidateMismatch = fmt.Errorf("%w: candidate does not belong to this session and category", ErrValidation)
	ErrDuplicateVote     = fmt.Errorf("%w: you have already voted in this category", ErrValidation)
)

// Forbidden
var (
	ErrNotAuthenticated = fmt.Errorf("%w: sign in required", ErrForbidden)
	ErrNotPlatformAdmin = fmt.Errorf("%w: platform admin required", ErrForbidden)
	ErrNotSessionOwner  = fmt.Errorf("%w: only the session owner can manage this session", ErrForbidden)
	ErrSessionExpired   = fmt.Errorf("%w: this voting session has expired", ErrForbidden)
	ErrPollsClosed      = fmt.Errorf("%w: polls are closed for this session", ErrForbidden)
	ErrAlreadyVoted     = fmt.Errorf("%w: you have already voted in this session", ErrForbidden)
	ErrResultsSealed    = fmt.Errorf("%w: results are not available yet", ErrForbidden)
)

// Not found
var (
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrNotFound)
)

// ErrCodeExhausted is returned when no free session code could be found.
// It is an internal failure, not a caller error.
var ErrCodeExhausted = errors.New("could not generate a unique session code")
