package confirm

import (
	"context"
	"fmt"
	"sync"
	"time"

	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/testutil"
	xc "github.com/openweb3-io/xcbridge/types"
)

type xclientUpdate = xclient.StatusUpdate

// step scripts one SignAndDispatch call.
type step struct {
	err     error
	block   bool
	updates []*xclientUpdate
}

type fakeWatch struct {
	updates []*xclient.StatusUpdate
	next    int
	closed  bool
}

func (w *fakeWatch) Next(ctx context.Context) (*xclient.StatusUpdate, error) {
	if w.next < len(w.updates) {
		update := w.updates[w.next]
		w.next++
		return update, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (w *fakeWatch) Close() {
	w.closed = true
}

type fakeChain struct {
	mu         sync.Mutex
	cfg        *xc.ChainConfig
	steps      []step
	dispatched int
	watches    []*fakeWatch
	inclusions map[string]*xc.Inclusion
	inspected  []string
}

var _ Chain = &fakeChain{}

func newFakeChain(steps ...step) *fakeChain {
	return &fakeChain{
		cfg:        &xc.ChainConfig{Name: "sibling", Blockchain: xc.BlockchainSubstrate},
		steps:      steps,
		inclusions: map[string]*xc.Inclusion{},
	}
}

func (c *fakeChain) Config() *xc.ChainConfig {
	return c.cfg
}

func (c *fakeChain) BuildBridgeTransfer(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	return &testutil.MockXcTx{}, nil
}

func (c *fakeChain) SignAndDispatch(ctx context.Context, tx xc.Tx) (*xc.SubmissionHandle, xclient.Watch, error) {
	c.mu.Lock()
	index := c.dispatched
	c.dispatched++
	c.mu.Unlock()

	s := c.steps[len(c.steps)-1]
	if index < len(c.steps) {
		s = c.steps[index]
	}
	if s.block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if s.err != nil {
		return nil, nil, s.err
	}
	watch := &fakeWatch{updates: s.updates}
	c.watches = append(c.watches, watch)
	return &xc.SubmissionHandle{
		Chain:       c.cfg.Blockchain,
		Hash:        xc.TxHash(fmt.Sprintf("0x%064x", index+1)),
		Nonce:       uint64(index),
		SubmittedAt: time.Now(),
	}, watch, nil
}

func (c *fakeChain) InspectInclusion(ctx context.Context, handle *xc.SubmissionHandle, blockHash string) (*xc.Inclusion, error) {
	c.inspected = append(c.inspected, blockHash)
	if inclusion, ok := c.inclusions[blockHash]; ok {
		copied := *inclusion
		return &copied, nil
	}
	return &xc.Inclusion{BlockHash: blockHash, Events: []string{"system.ExtrinsicSuccess"}}, nil
}

func (c *fakeChain) CheckError(err error) xclient.ClientError {
	return xclient.CheckError(err)
}

type recordingObserver struct {
	attempts   []int
	dispatched []xc.TxHash
	statuses   []xc.TxStatus
	retries    []ErrorKind
	outcomes   int
	lastErr    error
	last       *xc.SubmissionOutcome
}

func (o *recordingObserver) OnAttempt(chain xc.Blockchain, attempt int) {
	o.attempts = append(o.attempts, attempt)
}

func (o *recordingObserver) OnDispatched(handle *xc.SubmissionHandle) {
	o.dispatched = append(o.dispatched, handle.Hash)
}

func (o *recordingObserver) OnStatus(handle *xc.SubmissionHandle, update *xclient.StatusUpdate) {
	o.statuses = append(o.statuses, update.Status)
}

func (o *recordingObserver) OnRetry(chain xc.Blockchain, kind ErrorKind, err error) {
	o.retries = append(o.retries, kind)
}

func (o *recordingObserver) OnOutcome(chain xc.Blockchain, outcome *xc.SubmissionOutcome, err error) {
	o.outcomes++
	o.last = outcome
	o.lastErr = err
}

func inBlock(hash string) *xclient.StatusUpdate {
	return &xclient.StatusUpdate{Status: xc.TxStatusInBlock, BlockHash: hash, BlockNumber: 10}
}

func finalized(hash string) *xclient.StatusUpdate {
	return &xclient.StatusUpdate{Status: xc.TxStatusFinalized, BlockHash: hash, BlockNumber: 10}
}

func submitted(reason string) *xclient.StatusUpdate {
	return &xclient.StatusUpdate{Status: xc.TxStatusSubmitted, Reason: reason}
}
