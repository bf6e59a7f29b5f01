package client

import (
	"context"
	"errors"
	"net"
	"strings"
)

type ClientError string

// The node would not accept the transaction at the offered priority
const PriorityTooLow ClientError = "PriorityTooLow"

// The nonce was consumed by another transaction
const TransactionOutdated ClientError = "TransactionOutdated"

// deadline exceeded and transaction can no longer be accepted
const TransactionTimedOut ClientError = "TransactionTimedOut"

// A transaction failed to submit because it already exists
const TransactionExists ClientError = "TransactionExists"

// A transaction terminally failed due to no balance
const NoBalance ClientError = "NoBalance"

// A transaction terminally failed due to no balance after accounting for gas cost
const NoBalanceForGas ClientError = "NoBalanceForGas"

// A transaction terminally failed due to another reason
const TransactionFailure ClientError = "TransactionFailure"

// A network error occured -- there may be nothing wrong with the transaction
const NetworkError ClientError = "NetworkError"

// No outcome for this error known
const UnknownError ClientError = "UnknownError"

// CheckError maps the message patterns both chain families share. Chain
// clients consult it after their own patterns.
func CheckError(err error) ClientError {
	if err == nil {
		return UnknownError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TransactionTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransactionTimedOut
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "priority is too low"),
		strings.Contains(msg, "underpriced"):
		return PriorityTooLow
	case strings.Contains(msg, "transaction is outdated"),
		strings.Contains(msg, "nonce too low"):
		return TransactionOutdated
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"):
		return TransactionTimedOut
	case strings.Contains(msg, "already known"),
		strings.Contains(msg, "already imported"):
		return TransactionExists
	case strings.Contains(msg, "insufficient funds for gas"):
		return NoBalanceForGas
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "inability to pay some fees"):
		return NoBalance
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "eof"):
		return NetworkError
	}
	return UnknownError
}
