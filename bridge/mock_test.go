package bridge

import (
	"context"

	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/mock"
)

type mockChain struct {
	mock.Mock
	cfg *xc.ChainConfig
}

var _ xclient.Chain = &mockChain{}

func newMockChain(cfg *xc.ChainConfig) *mockChain {
	return &mockChain{cfg: cfg}
}

func (m *mockChain) Config() *xc.ChainConfig {
	return m.cfg
}

func (m *mockChain) FetchNativeBalance(ctx context.Context, address xc.Address) (xc.BigInt, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(xc.BigInt), args.Error(1)
}

func (m *mockChain) FetchAssetBalance(ctx context.Context, address xc.Address, asset *xc.Asset) (xc.BigInt, error) {
	args := m.Called(ctx, address, asset)
	return args.Get(0).(xc.BigInt), args.Error(1)
}

func (m *mockChain) EstimateFee(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation) (*xc.FeeQuote, error) {
	args := m.Called(ctx, req, loc)
	if quote := args.Get(0); quote != nil {
		return quote.(*xc.FeeQuote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChain) BuildBridgeTransfer(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	args := m.Called(ctx, req, loc, quote)
	if tx := args.Get(0); tx != nil {
		return tx.(xc.Tx), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChain) SignAndDispatch(ctx context.Context, tx xc.Tx) (*xc.SubmissionHandle, xclient.Watch, error) {
	args := m.Called(ctx, tx)
	if handle := args.Get(0); handle != nil {
		return handle.(*xc.SubmissionHandle), args.Get(1).(xclient.Watch), args.Error(2)
	}
	return nil, nil, args.Error(2)
}

func (m *mockChain) InspectInclusion(ctx context.Context, handle *xc.SubmissionHandle, blockHash string) (*xc.Inclusion, error) {
	args := m.Called(ctx, handle, blockHash)
	if inclusion := args.Get(0); inclusion != nil {
		return inclusion.(*xc.Inclusion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChain) CheckError(err error) xclient.ClientError {
	return xclient.CheckError(err)
}

func (m *mockChain) SignerAddress(ctx context.Context) (xc.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).(xc.Address), args.Error(1)
}

func (m *mockChain) Close() error {
	return nil
}

// scriptedWatch replays updates, then blocks until ctx is done.
type scriptedWatch struct {
	updates []*xclient.StatusUpdate
	reads   int
	closed  bool
}

func (w *scriptedWatch) Next(ctx context.Context) (*xclient.StatusUpdate, error) {
	if w.reads < len(w.updates) {
		update := w.updates[w.reads]
		w.reads++
		return update, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (w *scriptedWatch) Close() {
	w.closed = true
}
