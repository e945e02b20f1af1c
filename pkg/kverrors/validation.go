package kverrors

// ValidationError is a specialized error type for input validation
// failures. It embeds baseError to inherit all the standard error
// functionality, then adds validation-specific fields that help identify
// exactly what validation rule was violated.
type ValidationError struct {
	*baseError

	// Identifies which specific argument failed validation (e.g. "key", "value").
	field string

	// Specifies which validation rule was violated (e.g. "required", "non_empty").
	rule string

	// Captures what value was actually provided that failed validation.
	provided any
}

// NewValidationError creates a new validation-specific error with the
// provided context.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the ValidationError type.
func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

// WithCode sets the error code while preserving the ValidationError type.
func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which argument failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures what value was provided that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// Field returns the argument name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// NewNilArgumentError creates a specialized error for a nil key or value
// argument, per spec.md §7 "Invalid argument".
func NewNilArgumentError(field string) *ValidationError {
	return NewValidationError(
		nil, ErrorCodeInvalidInput, "required argument is nil",
	).WithField(field).WithRule("non_nil")
}

// NewEmptyKeyError creates a specialized error for an empty key, which
// spec.md §4.3 forbids for put/get/delete.
func NewEmptyKeyError() *ValidationError {
	return NewValidationError(
		nil, ErrorCodeInvalidInput, "key must not be empty",
	).WithField("key").WithRule("non_empty")
}

// NewNegativeOffsetError creates an error for an Insert call whose offset
// argument is negative, violating spec.md §4.2's "offset >= 0" constraint.
func NewNegativeOffsetError(offset int64) *ValidationError {
	return NewValidationError(
		nil, ErrorCodeInvalidInput, "offset must be non-negative",
	).WithField("offset").WithRule("non_negative").WithProvided(offset)
}
