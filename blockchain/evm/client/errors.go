package client

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

func CheckError(err error) xclient.ClientError {
	if err == nil {
		return xclient.UnknownError
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "replacement transaction underpriced"),
		strings.Contains(msg, "max priority fee per gas higher than max fee per gas"),
		strings.Contains(msg, "max fee per gas less than block base fee"):
		return xclient.PriorityTooLow
	case strings.Contains(msg, "nonce too low"),
		strings.Contains(msg, "nonce has already been used"):
		return xclient.TransactionOutdated
	case strings.Contains(msg, "intrinsic gas too low"),
		strings.Contains(msg, "execution reverted"):
		return xclient.TransactionFailure
	}
	return xclient.CheckError(err)
}

// InspectInclusion reads the receipt of the handle; a reverted receipt is
// replayed at its block to recover the revert reason.
func (c *Client) InspectInclusion(ctx context.Context, handle *xc.SubmissionHandle, blockHash string) (*xc.Inclusion, error) {
	hash := common.HexToHash(string(handle.Hash))
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	inclusion := &xc.Inclusion{
		BlockHash:   receipt.BlockHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}
	for _, log := range receipt.Logs {
		if len(log.Topics) > 0 {
			inclusion.Events = append(inclusion.Events, log.Address.Hex()+":"+log.Topics[0].Hex())
		}
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return inclusion, nil
	}

	inclusion.Failure = &xc.DecodedFailure{
		Module: "evm",
		Method: "Reverted",
		Docs:   c.revertReason(ctx, hash, receipt),
	}
	return inclusion, nil
}

func (c *Client) revertReason(ctx context.Context, hash common.Hash, receipt *types.Receipt) string {
	tx, _, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		c.logger.Debug("could not load reverted transaction", zap.Error(err))
		return ""
	}
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return ""
	}
	msg := ethereum.CallMsg{
		From:      from,
		To:        tx.To(),
		Gas:       tx.Gas(),
		GasFeeCap: tx.GasFeeCap(),
		GasTipCap: tx.GasTipCap(),
		Value:     tx.Value(),
		Data:      tx.Data(),
	}
	_, err = c.backend.CallContract(ctx, msg, receipt.BlockNumber)
	if err == nil {
		return ""
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decodeErr := hexutil.Decode(data); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason
				}
			}
		}
	}
	return err.Error()
}
