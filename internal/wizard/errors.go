package wizard

import "errors"

var (
	// ErrOutOfRange indicates a step index outside the registry.
	ErrOutOfRange = errors.New("step index out of range")

	// ErrBadgeNotExternal indicates an attempt to set a computed badge from outside.
	ErrBadgeNotExternal = errors.New("badge is computed by the wizard")
)
