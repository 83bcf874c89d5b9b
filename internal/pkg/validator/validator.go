// Package validator provides a small validation abstraction for request
// structs.
//
// Business code depends on the Validator interface so validation can be
// shared and tested consistently. The concrete go-playground/validator v10
// implementation lives in this package.
package validator

// Validator validates a struct against its declared rules.
type Validator interface {
	// Validate returns nil when data passes all rules, or an error carrying
	// per-field messages.
	Validate(data any) error
}
