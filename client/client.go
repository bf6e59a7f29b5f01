package client

import (
	"context"

	xc "github.com/openweb3-io/xcbridge/types"
)

// BalanceOracle answers read-only balance queries. Transport failures are
// reported as OracleUnavailable, never as a zero balance.
type BalanceOracle interface {
	FetchNativeBalance(ctx context.Context, address xc.Address) (xc.BigInt, error)
	FetchAssetBalance(ctx context.Context, address xc.Address, asset *xc.Asset) (xc.BigInt, error)
}

// FeeEstimator sizes a bridge transfer before it is built.
type FeeEstimator interface {
	EstimateFee(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation) (*xc.FeeQuote, error)
}

// StatusUpdate is one step of a submission's lifecycle as the chain reports it.
type StatusUpdate struct {
	Status      xc.TxStatus
	BlockHash   string
	BlockNumber uint64
	Reason      string
}

// Watch follows a single dispatched transaction.
type Watch interface {
	// Next blocks until the chain reports a new status or ctx is done.
	Next(ctx context.Context) (*StatusUpdate, error)
	Close()
}

// Submitter builds, signs and broadcasts bridge transfers.
type Submitter interface {
	BuildBridgeTransfer(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error)
	// SignAndDispatch picks a fresh nonce on every call.
	SignAndDispatch(ctx context.Context, tx xc.Tx) (*xc.SubmissionHandle, Watch, error)
	// InspectInclusion reports the events and any failure of the handle in blockHash.
	InspectInclusion(ctx context.Context, handle *xc.SubmissionHandle, blockHash string) (*xc.Inclusion, error)
	CheckError(err error) ClientError
}

// Chain is one open ChainEndpoint.
type Chain interface {
	BalanceOracle
	FeeEstimator
	Submitter

	Config() *xc.ChainConfig
	SignerAddress(ctx context.Context) (xc.Address, error)
	Close() error
}
