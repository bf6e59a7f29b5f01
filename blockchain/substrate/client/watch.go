package client

import (
	"context"
	"sync"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrSubscriptionClosed = errors.New("status subscription closed")

// statusWatch maps pool status notifications onto lifecycle updates.
type statusWatch struct {
	client *Client
	sub    StatusSubscription
	once   sync.Once
}

var _ xclient.Watch = &statusWatch{}

func newStatusWatch(client *Client, sub StatusSubscription) *statusWatch {
	return &statusWatch{client: client, sub: sub}
}

func (w *statusWatch) Next(ctx context.Context) (*xclient.StatusUpdate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err, ok := <-w.sub.Err():
		if !ok || err == nil {
			return nil, ErrSubscriptionClosed
		}
		return nil, err
	case status, ok := <-w.sub.Chan():
		if !ok {
			return nil, ErrSubscriptionClosed
		}
		return w.update(ctx, status), nil
	}
}

func (w *statusWatch) update(ctx context.Context, status types.ExtrinsicStatus) *xclient.StatusUpdate {
	switch {
	case status.IsInBlock:
		return w.withBlock(ctx, xc.TxStatusInBlock, status.AsInBlock)
	case status.IsFinalized:
		return w.withBlock(ctx, xc.TxStatusFinalized, status.AsFinalized)
	case status.IsInvalid:
		return &xclient.StatusUpdate{Status: xc.TxStatusInvalidated, Reason: "invalid"}
	case status.IsDropped:
		return &xclient.StatusUpdate{Status: xc.TxStatusInvalidated, Reason: "dropped"}
	case status.IsUsurped:
		return &xclient.StatusUpdate{Status: xc.TxStatusInvalidated, Reason: "usurped"}
	case status.IsFinalityTimeout:
		return &xclient.StatusUpdate{Status: xc.TxStatusTimedOut, Reason: "finality timeout"}
	case status.IsRetracted:
		return &xclient.StatusUpdate{Status: xc.TxStatusSubmitted, Reason: "retracted"}
	case status.IsBroadcast:
		return &xclient.StatusUpdate{Status: xc.TxStatusSubmitted, Reason: "broadcast"}
	case status.IsFuture:
		return &xclient.StatusUpdate{Status: xc.TxStatusSubmitted, Reason: "future"}
	default:
		return &xclient.StatusUpdate{Status: xc.TxStatusSubmitted, Reason: "ready"}
	}
}

func (w *statusWatch) withBlock(ctx context.Context, status xc.TxStatus, hash types.Hash) *xclient.StatusUpdate {
	update := &xclient.StatusUpdate{Status: status, BlockHash: hash.Hex()}
	number, err := w.client.conn.BlockNumber(ctx, hash)
	if err != nil {
		w.client.logger.Debug("could not read block number", zap.String("block", update.BlockHash), zap.Error(err))
		return update
	}
	update.BlockNumber = number
	return update
}

func (w *statusWatch) Close() {
	w.once.Do(w.sub.Unsubscribe)
}
