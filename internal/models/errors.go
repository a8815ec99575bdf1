package models

import "errors"

var (
	// ErrValidation is returned for malformed quiz or question input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a quiz, session, connection or content id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when a non-owner attempts an owner-only action.
	ErrNotOwner = errors.New("not the owner")
	// ErrNotAssigned is returned when a student is not on the quiz roster.
	ErrNotAssigned = errors.New("not assigned to this quiz")
	// ErrAlreadySubmitted is returned when the attempt limit for a quiz is exhausted.
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	// ErrInvalidState is returned when a session is in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid session state")
	// ErrSessionExpired is returned when the quiz time limit has run out.
	ErrSessionExpired = errors.New("session expired")
)
