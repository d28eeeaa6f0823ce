package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrInvalidPropType = errors.New("invalid prop type")
)
