package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidAction    = errors.New("invalid action")
	ErrInvalidArtifact  = errors.New("invalid artifact")
	ErrInvalidPhase     = errors.New("invalid phase")
	ErrInvalidEffort    = errors.New("invalid effort")
	ErrInvalidCategory  = errors.New("invalid category")
)
