package alerting

import "errors"

// Evaluation error kinds. Callers match with errors.Is to map them onto
// HTTP status codes or retry decisions.
var (
	// ErrAlertNotFound means the requested alert id does not exist.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrInvalidTimestamp means an explicit period string failed to parse.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidCondition means a stored comparison operator is not one of
	// < > <= >= =. A misconfigured alert fails loudly instead of silently
	// evaluating to false.
	ErrInvalidCondition = errors.New("invalid condition operator")

	// ErrAggregationFailed means the time-series average query failed or
	// timed out. The whole evaluation can be retried.
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrNotificationFailed means the alert email could not be sent. The
	// notify latch stays unset so the next evaluation retries the send.
	ErrNotificationFailed = errors.New("notification failed")

	// ErrPersistenceFailed means the notify latch could not be written
	// after a successful send. The email went out but a duplicate may
	// follow on a later evaluation.
	ErrPersistenceFailed = errors.New("notify flag persistence failed")
)
