package models

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation error")

	ErrInvalidChannelRef = errors.New("invalid channel URL or handle")
	ErrChannelNotFound   = errors.New("channel not found")
)
