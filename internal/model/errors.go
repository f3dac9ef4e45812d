package model

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("username or email already taken")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingPayload     = errors.New("voice entry has no audio payload")
	ErrInvalidPayload     = errors.New("malformed audio payload")
)
