package tenant

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrDomainTaken    = errors.New("domain is already registered")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrUnknownPlan    = errors.New("unknown plan")
)
