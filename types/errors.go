package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode identifies a failure. Codes never change meaning between releases.
type ErrorCode string

const (
	CodeInvalidDestination                   = ErrorCode("InvalidDestination")
	CodeDestinationBelowExistentialThreshold = ErrorCode("DestinationBelowExistentialThreshold")
	CodeInsufficientTransferBalance          = ErrorCode("InsufficientTransferBalance")
	CodeInsufficientFeeBalance               = ErrorCode("InsufficientFeeBalance")
	CodeInvalidAmount                        = ErrorCode("InvalidAmount")
	CodeOracleUnavailable                    = ErrorCode("OracleUnavailable")
	CodeFeeEstimationFailed                  = ErrorCode("FeeEstimationFailed")
	CodeSignerUnavailable                    = ErrorCode("SignerUnavailable")
	CodeBroadcastRejected                    = ErrorCode("BroadcastRejected")
	CodeFailedOnChain                        = ErrorCode("FailedOnChain")
	CodeInvalidated                          = ErrorCode("Invalidated")
	CodeTimedOut                             = ErrorCode("TimedOut")
	CodeSubmissionExhausted                  = ErrorCode("SubmissionExhausted")
	CodeUnsupportedChain                     = ErrorCode("UnsupportedChain")
	CodeInvalidConfig                        = ErrorCode("InvalidConfig")
)

// Category groups codes by how a caller is expected to react.
type Category string

const (
	CategoryValidation        = Category("validation")
	CategoryOracleUnavailable = Category("oracle_unavailable")
	CategoryEstimation        = Category("estimation")
	CategoryDispatch          = Category("dispatch")
	CategoryRetryableNetwork  = Category("retryable_network")
	CategoryOnChainFailure    = Category("on_chain_failure")
	CategoryExhausted         = Category("exhausted")
	CategoryConfiguration     = Category("configuration")
)

// Error is the rich error returned by every component. Code and Message
// identify the failure; Details carries context specific to one occurrence.
type Error struct {
	Code     ErrorCode `json:"code"`
	Category Category  `json:"category"`
	// Message MUST NOT change for a given code; put context in Details.
	Message string `json:"message"`
	// An error is retriable if the same request may succeed if submitted again.
	Retriable bool           `json:"retriable"`
	Details   map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	bytes, _ := json.Marshal(e)
	return string(bytes)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// WithDetail returns a copy with one more detail set.
func (e *Error) WithDetail(key string, value any) *Error {
	next := *e
	next.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		next.Details[k] = v
	}
	next.Details[key] = value
	return &next
}

var (
	ErrInvalidDestination = &Error{
		Code:     CodeInvalidDestination,
		Category: CategoryValidation,
		Message:  "Invalid destination address",
	}
	ErrDestinationBelowExistentialThreshold = &Error{
		Code:     CodeDestinationBelowExistentialThreshold,
		Category: CategoryValidation,
		Message:  "Destination balance is below the existential threshold",
	}
	ErrInsufficientTransferBalance = &Error{
		Code:     CodeInsufficientTransferBalance,
		Category: CategoryValidation,
		Message:  "Insufficient balance for the transfer asset",
	}
	ErrInsufficientFeeBalance = &Error{
		Code:     CodeInsufficientFeeBalance,
		Category: CategoryValidation,
		Message:  "Insufficient balance to pay fees",
	}
	ErrInvalidAmount = &Error{
		Code:     CodeInvalidAmount,
		Category: CategoryValidation,
		Message:  "Invalid amount",
	}
	ErrOracleUnavailable = &Error{
		Code:      CodeOracleUnavailable,
		Category:  CategoryOracleUnavailable,
		Message:   "Balance query failed",
		Retriable: true,
	}
	ErrFeeEstimationFailed = &Error{
		Code:     CodeFeeEstimationFailed,
		Category: CategoryEstimation,
		Message:  "Fee estimation failed",
	}
	ErrSignerUnavailable = &Error{
		Code:     CodeSignerUnavailable,
		Category: CategoryDispatch,
		Message:  "Signer unavailable",
	}
	ErrBroadcastRejected = &Error{
		Code:     CodeBroadcastRejected,
		Category: CategoryDispatch,
		Message:  "Broadcast rejected",
	}
	ErrFailedOnChain = &Error{
		Code:     CodeFailedOnChain,
		Category: CategoryOnChainFailure,
		Message:  "Transaction failed on chain",
	}
	ErrInvalidated = &Error{
		Code:     CodeInvalidated,
		Category: CategoryDispatch,
		Message:  "Transaction invalidated",
	}
	ErrTimedOut = &Error{
		Code:      CodeTimedOut,
		Category:  CategoryRetryableNetwork,
		Message:   "Timed out waiting for transaction",
		Retriable: true,
	}
	ErrSubmissionExhausted = &Error{
		Code:     CodeSubmissionExhausted,
		Category: CategoryExhausted,
		Message:  "Could not execute transaction",
	}
	ErrUnsupportedChain = &Error{
		Code:     CodeUnsupportedChain,
		Category: CategoryConfiguration,
		Message:  "Unsupported chain",
	}
	ErrInvalidConfig = &Error{
		Code:     CodeInvalidConfig,
		Category: CategoryConfiguration,
		Message:  "Invalid configuration",
	}
)

// WrapErr adds the cause to a copy of the template. We use a function
// to do this so that we don't accidentally overwrite the standard errors.
func WrapErr(rErr *Error, err error) *Error {
	newErr := &Error{
		Code:      rErr.Code,
		Category:  rErr.Category,
		Message:   rErr.Message,
		Retriable: rErr.Retriable,
		cause:     err,
	}
	for k, v := range rErr.Details {
		if newErr.Details == nil {
			newErr.Details = map[string]any{}
		}
		newErr.Details[k] = v
	}
	if err != nil {
		if newErr.Details == nil {
			newErr.Details = map[string]any{}
		}
		newErr.Details["context"] = err.Error()
	}
	return newErr
}

// Errorf wraps a formatted context message with the template.
func Errorf(rErr *Error, format string, args ...any) *Error {
	return WrapErr(rErr, fmt.Errorf(format, args...))
}

// CodeOf returns the code of the first *Error in the chain, or "".
func CodeOf(err error) ErrorCode {
	var xcErr *Error
	if errors.As(err, &xcErr) {
		return xcErr.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
