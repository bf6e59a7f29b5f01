package confirm

import (
	"context"
	"errors"

	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
)

// ErrorKind is the tracker's reading of a failed attempt.
type ErrorKind string

const (
	// KindPriorityTooLow: pause briefly, then resubmit.
	KindPriorityTooLow = ErrorKind("priority_too_low")
	// KindOutdated: the nonce raced another transaction, resubmit at once.
	KindOutdated = ErrorKind("outdated")
	// KindTimeout: resubmit, charging the budget for several attempts.
	KindTimeout = ErrorKind("timeout")
	// KindFatal ends the flow.
	KindFatal = ErrorKind("fatal")
)

func (k ErrorKind) Retryable() bool {
	return k != KindFatal
}

// ErrAttemptTimeout is returned when one submit-and-watch attempt runs out
// of its wall-clock allowance.
var ErrAttemptTimeout = errors.New("attempt timeout")

// Classifier maps a chain error to a client error class.
type Classifier interface {
	CheckError(err error) xclient.ClientError
}

// Classify decides how the tracker reacts to err. Anything it does not
// recognise is fatal.
func Classify(classifier Classifier, err error) ErrorKind {
	if err == nil {
		return KindFatal
	}
	if errors.Is(err, ErrAttemptTimeout) {
		return KindTimeout
	}
	var xcErr *xc.Error
	if errors.As(err, &xcErr) {
		// already a domain failure, e.g. SignerUnavailable
		return KindFatal
	}
	if errors.Is(err, context.Canceled) {
		return KindFatal
	}
	if classifier == nil {
		return KindFatal
	}
	switch classifier.CheckError(err) {
	case xclient.PriorityTooLow:
		return KindPriorityTooLow
	case xclient.TransactionOutdated:
		return KindOutdated
	case xclient.TransactionTimedOut:
		return KindTimeout
	}
	return KindFatal
}
