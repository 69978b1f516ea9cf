package employee

import "errors"

var (
	ErrInvalidStateTransition = errors.New("employee: invalid state transition")
	ErrInvalidIndex           = errors.New("employee: invalid index")
	ErrInterviewNotFound      = errors.New("employee: interview not found")
	ErrEmployeeNotFound       = errors.New("employee: not found")
	ErrEmployeeAlreadyExists  = errors.New("employee: already exists")
	ErrInvalidID              = errors.New("employee: invalid id")
	ErrInvalidFirstName       = errors.New("employee: invalid first name")
	ErrInvalidLastName        = errors.New("employee: invalid last name")
	ErrInvalidEmail           = errors.New("employee: invalid email")
	ErrInvalidInterviewDate   = errors.New("employee: invalid interview date")
	ErrInvalidPanel           = errors.New("employee: invalid interview panel")
	ErrInvalidQuestion        = errors.New("employee: invalid hr question")
)
