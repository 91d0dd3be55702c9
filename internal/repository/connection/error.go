package connection

import "errors"

var (
	ErrAlreadyExists = errors.New("connection already exists")
	ErrNotFound      = errors.New("connection not found")
	ErrClosed        = errors.New("connection closed")
	ErrQueueFull     = errors.New("connection send queue full")
)
