package rules

import "errors"

var (
	ErrRuleNotFound   = errors.New("rule not found")
	ErrInvalidType    = errors.New("invalid rule type")
	ErrInvalidAction  = errors.New("invalid rule action")
	ErrEmptyPattern   = errors.New("pattern must not be empty")
	ErrInvalidPattern = errors.New("pattern is not a valid regular expression")
)
