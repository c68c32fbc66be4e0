package errors

import sterrors "errors"

var (
	ErrConfigRequired     = sterrors.New("ticketflow: config is required")
	ErrLoggerRequired     = sterrors.New("ticketflow: logger is required")
	ErrPublisherRequired  = sterrors.New("ticketflow: publisher is required")
	ErrSubscriberRequired = sterrors.New("ticketflow: subscriber is required")
	ErrChannelRequired    = sterrors.New("ticketflow: channel name is required")
	ErrHandlerRequired    = sterrors.New("ticketflow: message handler is required")
	ErrPayloadRequired    = sterrors.New("ticketflow: payload is required")
	ErrCodecRequired      = sterrors.New("ticketflow: codec is required")
)

// ConfigValidationError wraps the joined validation failures reported by
// config.Validate so callers can branch on the failure class.
type ConfigValidationError struct {
	Err error
}

func (e ConfigValidationError) Error() string {
	return "ticketflow: invalid configuration: " + e.Err.Error()
}

func (e ConfigValidationError) Unwrap() error { return e.Err }

// NewConfigValidationError wraps err, returning nil when err is nil.
func NewConfigValidationError(err error) error {
	if err == nil {
		return nil
	}
	return ConfigValidationError{Err: err}
}
