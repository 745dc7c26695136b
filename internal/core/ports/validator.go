package ports

// Validator checks a payload struct against its declared field rules.
// Failures are reported as domain.ValidationErrors.
type Validator interface {
	Validate(i any) error
}
