package catalog

import "fmt"

// ConnectionError means a tenant's storage handle could not be resolved or
// reached. Fatal to the request, never retried automatically.
type ConnectionError struct {
	Tenant string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tenant %q connection failed: %v", e.Tenant, e.Err)
	}
	return fmt.Sprintf("tenant %q connection failed", e.Tenant)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ValidationError means malformed input or a referenced entity that is
// missing, inactive or deleted. Nothing is written.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// DuplicateError means a name/slug collision among live entities on create
type DuplicateError struct {
	Entity string
	Name   string
	Slug   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with name %q or slug %q already exists", e.Entity, e.Name, e.Slug)
}

// NotFoundError means the target entity does not exist or is soft-deleted
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// PersistenceError means the raw-path write failed after the mapped write
// already succeeded. Logged and surfaced as a warning, never escalated to a
// request failure: the mapped update stands and must not be rolled back.
type PersistenceError struct {
	Entity string
	ID     string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("raw write for %s %q failed: %v", e.Entity, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
