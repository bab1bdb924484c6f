package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// Accounting and synchronization taxonomy
	CodeValidationMismatch = "VALIDATION_MISMATCH"
	CodeMissingClockIn     = "MISSING_CLOCK_IN"
	CodeNetworkFailure     = "NETWORK_FAILURE"
	CodeServerError        = "SERVER_ERROR"
	CodeTransactionFailure = "TRANSACTION_FAILURE"
	CodeDuplicateCandidate = "DUPLICATE_CANDIDATE"
)
