package model

// Validator messages surfaced in the {message} response envelope.
const (
	// MsgEmailRequired is returned when a subscriber email is missing
	// or blank after trimming.
	MsgEmailRequired = "Please enter your email address"
)

// ValidationError reports the first actionable field failure for a write.
// Handlers map it deterministically to a 400 response carrying Message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
