package plan

import "errors"

var (
	// ErrPlanNotFound indicates the plan doesn't exist or belongs to
	// another user.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrTextTooShort indicates the plan text is below the minimum length.
	ErrTextTooShort = errors.New("plan text too short")
	// ErrBadDueDate indicates the due-date suffix could not be parsed.
	ErrBadDueDate = errors.New("invalid due date")
)
