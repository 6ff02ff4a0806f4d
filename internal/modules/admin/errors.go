package admin

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrSettingNotFound = errors.New("setting not found")
	ErrRoleNotAllowed  = errors.New("role cannot be assigned")
)
