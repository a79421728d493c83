package common

import "errors"

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("bad request")
	ErrTooLarge        = errors.New("uploaded file exceeds the size limit")
)
