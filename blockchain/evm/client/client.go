package client

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/openweb3-io/xcbridge/blockchain/evm/abi/erc20"
	evmaddress "github.com/openweb3-io/xcbridge/blockchain/evm/address"
	"github.com/openweb3-io/xcbridge/blockchain/evm/builder"
	"github.com/openweb3-io/xcbridge/blockchain/evm/tx"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultPollInterval = 2 * time.Second

// Backend is the part of ethclient.Client the bridge uses.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

var _ Backend = &ethclient.Client{}

type Client struct {
	Chain        *xc.ChainConfig
	backend      Backend
	signer       signer.Signer
	txBuilder    builder.TxBuilder
	logger       *zap.Logger
	pollInterval time.Duration
}

var _ xclient.Chain = &Client{}

type Option func(*Client)

func WithBackend(backend Backend) Option {
	return func(c *Client) { c.backend = backend }
}

func WithSigner(s signer.Signer) Option {
	return func(c *Client) { c.signer = s }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) { c.pollInterval = interval }
}

// NewClient dials the chain unless a backend is injected, and resolves the
// chain id when the config leaves it unset.
func NewClient(ctx context.Context, cfg *xc.ChainConfig, opts ...Option) (*Client, error) {
	chain := *cfg
	c := &Client{
		Chain:        &chain,
		logger:       zap.L(),
		pollInterval: DefaultPollInterval,
	}
	if cfg.PollIntervalMs > 0 {
		c.pollInterval = time.Duration(cfg.PollIntervalMs) * time.Millisecond
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("chain", chain.Name))

	if c.backend == nil {
		rpcClient, err := ethclient.DialContext(ctx, cfg.URL)
		if err != nil {
			return nil, errors.Wrapf(err, "dialing url: %v", cfg.URL)
		}
		c.backend = rpcClient
	}
	if chain.ChainID == 0 {
		chainID, err := c.backend.ChainID(ctx)
		if err != nil {
			c.backend.Close()
			return nil, errors.Wrap(err, "fetch chain id")
		}
		chain.ChainID = chainID.Int64()
	}

	txBuilder, err := builder.NewTxBuilder(c.Chain)
	if err != nil {
		return nil, err
	}
	c.txBuilder = txBuilder
	return c, nil
}

func (c *Client) Config() *xc.ChainConfig {
	return c.Chain
}

func (c *Client) Close() error {
	c.backend.Close()
	return nil
}

// SignerAddress derives the sender from the signer's public key.
func (c *Client) SignerAddress(ctx context.Context) (xc.Address, error) {
	from, err := c.signerAddress(ctx)
	if err != nil {
		return "", err
	}
	return xc.Address(from.Hex()), nil
}

func (c *Client) signerAddress(ctx context.Context) (common.Address, error) {
	if c.signer == nil {
		return common.Address{}, xc.Errorf(xc.ErrSignerUnavailable, "no signer configured for %s", c.Chain.Name)
	}
	pub, err := c.signer.PublicKey(ctx)
	if err != nil {
		return common.Address{}, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	ab, _ := evmaddress.NewAddressBuilder(c.Chain)
	addr, err := ab.GetAddressFromPublicKey(pub)
	if err != nil {
		return common.Address{}, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	return common.HexToAddress(string(addr)), nil
}

func (c *Client) FetchNativeBalance(ctx context.Context, address xc.Address) (xc.BigInt, error) {
	addr, err := evmaddress.FromHex(address)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrInvalidDestination, err)
	}
	balance, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrOracleUnavailable, err)
	}
	return xc.BigInt(*balance), nil
}

// FetchAssetBalance reads an ERC-20 balance; native assets use the account balance.
func (c *Client) FetchAssetBalance(ctx context.Context, address xc.Address, asset *xc.Asset) (xc.BigInt, error) {
	if asset == nil || asset.Native {
		return c.FetchNativeBalance(ctx, address)
	}
	owner, err := evmaddress.FromHex(address)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrInvalidDestination, err)
	}
	contract, err := evmaddress.FromHex(xc.Address(asset.Contract))
	if err != nil {
		return xc.BigInt{}, xc.Errorf(xc.ErrInvalidConfig, "asset %s contract: %v", asset.Symbol, err)
	}
	data, err := erc20.PackBalanceOf(owner)
	if err != nil {
		return xc.BigInt{}, err
	}
	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrOracleUnavailable, err)
	}
	balance, err := erc20.UnpackBalanceOf(output)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrOracleUnavailable, err)
	}
	return xc.BigInt(*balance), nil
}

// EstimateFee simulates the bridge call; a failed simulation is an error,
// never a guessed gas limit.
func (c *Client) EstimateFee(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation) (*xc.FeeQuote, error) {
	from, err := c.signerAddress(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := c.txBuilder.BuildBridgePayload(req, loc)
	if err != nil {
		return nil, err
	}
	to, err := evmaddress.FromHex(c.txBuilder.XTokensAddress())
	if err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, err)
	}

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: payload})
	if err != nil {
		return nil, xc.WrapErr(xc.ErrFeeEstimationFailed, err)
	}
	gasLimit := xc.NewBigIntFromUint64(gas).ApplyMultiplier(c.Chain.ChainGasMultiplier)

	header, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, xc.WrapErr(xc.ErrFeeEstimationFailed, err)
	}
	if header.BaseFee == nil {
		return nil, xc.Errorf(xc.ErrFeeEstimationFailed, "chain %s reports no base fee", c.Chain.Name)
	}
	tip, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, xc.WrapErr(xc.ErrFeeEstimationFailed, err)
	}
	maxTipGwei := c.Chain.ChainMaxTipGwei
	if maxTipGwei == 0 {
		maxTipGwei = builder.DefaultMaxTipCapGwei
	}
	if maxTip := builder.GweiToWei(maxTipGwei); tip.Cmp(maxTip.Int()) > 0 {
		tip = maxTip.Int()
	}

	// leave room for the base fee to double before inclusion
	feeCap := new(big.Int).Mul(header.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	total := new(big.Int).Mul(gasLimit.Int(), feeCap)

	quote := &xc.FeeQuote{
		Chain:        xc.BlockchainEVM,
		Units:        gasLimit.Uint64(),
		PricePerUnit: xc.BigInt(*feeCap),
		PriorityFee:  xc.BigInt(*tip),
		Total:        xc.BigInt(*total),
	}
	c.logger.Debug("estimated fee",
		zap.Uint64("gas", quote.Units),
		zap.String("fee_cap", quote.PricePerUnit.String()),
		zap.String("tip", quote.PriorityFee.String()),
	)
	return quote, nil
}

func (c *Client) BuildBridgeTransfer(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	return c.txBuilder.NewBridgeTransfer(req, loc, quote)
}

// SignAndDispatch assigns the pending nonce, signs and broadcasts.
func (c *Client) SignAndDispatch(ctx context.Context, unsigned xc.Tx) (*xc.SubmissionHandle, xclient.Watch, error) {
	evmTx, ok := unsigned.(*tx.Tx)
	if !ok {
		return nil, nil, errors.Errorf("unexpected transaction type %T", unsigned)
	}
	from, err := c.signerAddress(ctx)
	if err != nil {
		return nil, nil, err
	}
	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch nonce")
	}
	signed, err := evmTx.WithNonce(nonce)
	if err != nil {
		return nil, nil, err
	}
	sighashes, err := signed.Sighashes()
	if err != nil {
		return nil, nil, err
	}
	sig, err := c.signer.Sign(ctx, sighashes[0])
	if err != nil {
		return nil, nil, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	if err := signed.AddSignatures(sig); err != nil {
		return nil, nil, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}

	if err := c.backend.SendTransaction(ctx, signed.EthTx); err != nil {
		return nil, nil, err
	}

	handle := &xc.SubmissionHandle{
		Chain:       xc.BlockchainEVM,
		Hash:        signed.Hash(),
		Nonce:       nonce,
		SubmittedAt: time.Now(),
	}
	c.logger.Info("dispatched", zap.String("hash", string(handle.Hash)), zap.Uint64("nonce", nonce))
	return handle, newReceiptWatch(c, signed.EthTx.Hash()), nil
}

func (c *Client) CheckError(err error) xclient.ClientError {
	return CheckError(err)
}
