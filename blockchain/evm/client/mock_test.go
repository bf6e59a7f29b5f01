package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

var _ Backend = &mockBackend{}

func (m *mockBackend) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if id := args.Get(0); id != nil {
		return id.(*big.Int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	args := m.Called(ctx, account, blockNumber)
	if balance := args.Get(0); balance != nil {
		return balance.(*big.Int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, msg, blockNumber)
	if out := args.Get(0); out != nil {
		return out.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	args := m.Called(ctx, number)
	if header := args.Get(0); header != nil {
		return header.(*types.Header), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if tip := args.Get(0); tip != nil {
		return tip.(*big.Int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	args := m.Called(ctx, hash)
	if tx := args.Get(0); tx != nil {
		return tx.(*types.Transaction), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *mockBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, txHash)
	if receipt := args.Get(0); receipt != nil {
		return receipt.(*types.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) Close() {
	m.Called()
}
