package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrSyncInFlight = New(
		CodeInvalidState,
		"A reconciliation pass is already running",
		http.StatusConflict,
	)
)

// NetworkFailure wraps a transport-level error. These are transient and retried
// with backoff by the scheduler.
func NetworkFailure(err error) *AppError {
	return Wrap(err, CodeNetworkFailure, "Remote server is unreachable", http.StatusBadGateway)
}

// ServerError wraps a non-2xx or non-JSON response from the remote server.
func ServerError(err error) *AppError {
	return Wrap(err, CodeServerError, "Remote server returned an invalid response", http.StatusBadGateway)
}

// TransactionFailure wraps a failed storage transaction. The whole batch is
// rolled back; nothing partial is persisted.
func TransactionFailure(err error) *AppError {
	return Wrap(err, CodeTransactionFailure, "Storage transaction failed", http.StatusInternalServerError)
}
