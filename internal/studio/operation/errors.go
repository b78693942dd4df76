package operation

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)
