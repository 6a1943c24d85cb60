package leaverequest

// ValidationError carries the per-field messages from ValidateDraft so the
// handler can render inline errors alongside the summary message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "leave request validation failed"
}
