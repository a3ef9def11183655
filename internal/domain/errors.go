package domain

import "errors"

var (
	// ErrUnknownStep indicates a step identifier outside StepOrder.
	ErrUnknownStep = errors.New("unknown step")

	// ErrInvalidBadge indicates an unrecognized badge id or status.
	ErrInvalidBadge = errors.New("invalid badge")
)
