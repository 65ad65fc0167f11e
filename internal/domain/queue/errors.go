package queue

import "errors"

var (
	ErrItemNotFound      = errors.New("queue item not found")
	ErrIllegalTransition = errors.New("item is not in a state that permits this action")
	ErrNotAssignable     = errors.New("only pending items can be assigned")
	ErrInvalidAction     = errors.New("invalid bulk action")
)
