package schema

import "errors"

var (
	// ErrNoOfflineSchema indicates a code that the offline table does not know.
	ErrNoOfflineSchema = errors.New("no offline schema for classification")

	// ErrInvalidTable indicates field descriptors that fail validation.
	ErrInvalidTable = errors.New("invalid schema table")

	// ErrUnknownCode indicates the remote service does not know the code.
	ErrUnknownCode = errors.New("unknown classification code")

	ErrRemoteUnavailable = errors.New("schema service unavailable")
	ErrRemoteTimeout     = errors.New("schema service timed out")
)
