package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrBadCredentials     = errors.New("bad credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNoSecret           = errors.New("jwt secret must not be empty")
)
