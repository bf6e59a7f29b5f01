package client

import (
	"context"
	"errors"
	"math/big"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

var errPending = errors.New("pending")

// receiptWatch polls for the receipt, then for finality of its block.
type receiptWatch struct {
	client  *Client
	hash    common.Hash
	receipt *types.Receipt
	done    bool
}

var _ xclient.Watch = &receiptWatch{}

func newReceiptWatch(client *Client, hash common.Hash) *receiptWatch {
	return &receiptWatch{client: client, hash: hash}
}

func (w *receiptWatch) poll(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.NewConstantBackOff(w.client.pollInterval), ctx)
	return backoff.Retry(op, b)
}

func (w *receiptWatch) Next(ctx context.Context) (*xclient.StatusUpdate, error) {
	if w.done {
		return nil, errors.New("watch finished")
	}
	if w.receipt == nil {
		err := w.poll(ctx, func() error {
			receipt, err := w.client.backend.TransactionReceipt(ctx, w.hash)
			if err != nil {
				if !errors.Is(err, ethereum.NotFound) {
					w.client.logger.Debug("receipt poll failed", zap.Error(err))
				}
				return errPending
			}
			w.receipt = receipt
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &xclient.StatusUpdate{
			Status:      xc.TxStatusInBlock,
			BlockHash:   w.receipt.BlockHash.Hex(),
			BlockNumber: w.receipt.BlockNumber.Uint64(),
		}, nil
	}

	var (
		moved     *types.Receipt
		retracted bool
	)
	err := w.poll(ctx, func() error {
		final, err := w.client.finalizedHeight(ctx)
		if err != nil {
			w.client.logger.Debug("finality poll failed", zap.Error(err))
			return errPending
		}
		if final < w.receipt.BlockNumber.Uint64() {
			return errPending
		}
		// the receipt must still sit in the canonical block
		receipt, err := w.client.backend.TransactionReceipt(ctx, w.hash)
		if errors.Is(err, ethereum.NotFound) {
			retracted = true
			return nil
		}
		if err != nil {
			w.client.logger.Debug("receipt recheck failed", zap.Error(err))
			return errPending
		}
		if receipt.BlockHash != w.receipt.BlockHash {
			moved = receipt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case retracted:
		w.client.logger.Debug("receipt retracted", zap.String("block", w.receipt.BlockHash.Hex()))
		w.receipt = nil
		return &xclient.StatusUpdate{
			Status: xc.TxStatusSubmitted,
			Reason: "block retracted",
		}, nil
	case moved != nil:
		w.client.logger.Debug("receipt moved",
			zap.String("from", w.receipt.BlockHash.Hex()),
			zap.String("to", moved.BlockHash.Hex()),
		)
		w.receipt = moved
		return &xclient.StatusUpdate{
			Status:      xc.TxStatusInBlock,
			BlockHash:   moved.BlockHash.Hex(),
			BlockNumber: moved.BlockNumber.Uint64(),
		}, nil
	}

	w.done = true
	return &xclient.StatusUpdate{
		Status:      xc.TxStatusFinalized,
		BlockHash:   w.receipt.BlockHash.Hex(),
		BlockNumber: w.receipt.BlockNumber.Uint64(),
	}, nil
}

func (w *receiptWatch) Close() {
	w.done = true
}

// finalizedHeight prefers the node's finalized tag and falls back to a
// fixed confirmation depth below the head.
func (c *Client) finalizedHeight(ctx context.Context) (uint64, error) {
	header, err := c.backend.HeaderByNumber(ctx, big.NewInt(int64(rpc.FinalizedBlockNumber)))
	if err == nil && header != nil {
		return header.Number.Uint64(), nil
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	height := head.Number.Uint64()
	if height < c.Chain.ConfirmationsFinal {
		return 0, nil
	}
	return height - c.Chain.ConfirmationsFinal, nil
}
