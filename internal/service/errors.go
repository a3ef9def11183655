package service

import "errors"

var (
	// ErrIncomplete indicates a submit of a profile below 100%.
	ErrIncomplete = errors.New("profile is not complete")

	// ErrNameRequired indicates an applicant without a name.
	ErrNameRequired = errors.New("applicant name is required")
)
