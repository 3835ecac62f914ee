package service

// ValidationError carries a client-facing message for malformed or missing
// input. Handlers map it to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErr(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}
