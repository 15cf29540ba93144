package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig  = fmt.Errorf("memoryruntime: invalid config")
	ErrNotFound       = fmt.Errorf("memoryruntime: not found")
	ErrInvalidParams  = fmt.Errorf("memoryruntime: invalid params")
	ErrInternal       = fmt.Errorf("memoryruntime: internal error")
	ErrInvalidRequest = fmt.Errorf("memoryruntime: invalid request")
	ErrUnavailable    = fmt.Errorf("memoryruntime: unavailable")
)
