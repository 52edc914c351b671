package controller

import (
	"errors"
	"fmt"
)

// Category classifies controller errors.
type Category string

const (
	InputError       Category = "INPUT_ERROR"
	AlgorithmFailure Category = "ALGORITHM_FAILURE"
	SchedulerMisuse  Category = "SCHEDULER_MISUSE"
)

type Err struct {
	Category Category
	Message  string
	Cause    error
}

func (e *Err) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Err) Unwrap() error {
	return e.Cause
}

// IsCategory reports whether err is a controller error of category c.
func IsCategory(err error, c Category) bool {
	var e *Err
	if errors.As(err, &e) {
		return e.Category == c
	}
	return false
}

// GetCategory extracts the category from err, or "" when err is not a
// controller error.
func GetCategory(err error) Category {
	var e *Err
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
