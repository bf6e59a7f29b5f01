package confirm

import (
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
)

// Observer receives progress of a tracked submission. Calls happen on the
// tracking goroutine and must not block.
type Observer interface {
	OnAttempt(chain xc.Blockchain, attempt int)
	OnDispatched(handle *xc.SubmissionHandle)
	OnStatus(handle *xc.SubmissionHandle, update *xclient.StatusUpdate)
	OnRetry(chain xc.Blockchain, kind ErrorKind, err error)
	// OnOutcome is called once, with either a terminal outcome or an error.
	OnOutcome(chain xc.Blockchain, outcome *xc.SubmissionOutcome, err error)
}

type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) OnAttempt(xc.Blockchain, int) {}
func (NopObserver) OnDispatched(*xc.SubmissionHandle) {}
func (NopObserver) OnStatus(*xc.SubmissionHandle, *xclient.StatusUpdate) {}
func (NopObserver) OnRetry(xc.Blockchain, ErrorKind, error) {}
func (NopObserver) OnOutcome(xc.Blockchain, *xc.SubmissionOutcome, error) {}

// Observers fans out to each observer in order.
type Observers []Observer

var _ Observer = Observers{}

func (o Observers) OnAttempt(chain xc.Blockchain, attempt int) {
	for _, obs := range o {
		obs.OnAttempt(chain, attempt)
	}
}

func (o Observers) OnDispatched(handle *xc.SubmissionHandle) {
	for _, obs := range o {
		obs.OnDispatched(handle)
	}
}

func (o Observers) OnStatus(handle *xc.SubmissionHandle, update *xclient.StatusUpdate) {
	for _, obs := range o {
		obs.OnStatus(handle, update)
	}
}

func (o Observers) OnRetry(chain xc.Blockchain, kind ErrorKind, err error) {
	for _, obs := range o {
		obs.OnRetry(chain, kind, err)
	}
}

func (o Observers) OnOutcome(chain xc.Blockchain, outcome *xc.SubmissionOutcome, err error) {
	for _, obs := range o {
		obs.OnOutcome(chain, outcome, err)
	}
}
