package client

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	substrateaddress "github.com/openweb3-io/xcbridge/blockchain/substrate/address"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/builder"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/tx"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	AssetIDTypeU32  = "u32"
	AssetIDTypeU128 = "u128"
)

type Client struct {
	Chain     *xc.ChainConfig
	conn      Conn
	signer    signer.Signer
	txBuilder builder.TxBuilder
	errors    *ErrorRegistry
	logger    *zap.Logger
}

var _ xclient.Chain = &Client{}

type Option func(*Client)

func WithConn(conn Conn) Option {
	return func(c *Client) { c.conn = conn }
}

func WithSigner(s signer.Signer) Option {
	return func(c *Client) { c.signer = s }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient connects unless a Conn is injected and loads runtime metadata
// for call construction and error decoding.
func NewClient(ctx context.Context, cfg *xc.ChainConfig, opts ...Option) (*Client, error) {
	chain := *cfg
	c := &Client{
		Chain:  &chain,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("chain", chain.Name))

	if c.conn == nil {
		conn, err := Dial(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		c.conn = conn
	}
	meta, err := c.conn.Metadata(ctx)
	if err != nil {
		c.conn.Close()
		return nil, errors.Wrap(err, "fetch runtime metadata")
	}
	txBuilder, err := builder.NewTxBuilder(c.Chain, meta)
	if err != nil {
		c.conn.Close()
		return nil, err
	}
	c.txBuilder = txBuilder
	c.errors = NewErrorRegistry(meta)
	return c, nil
}

func (c *Client) Config() *xc.ChainConfig {
	return c.Chain
}

func (c *Client) Close() error {
	c.conn.Close()
	return nil
}

func (c *Client) ss58Prefix() uint16 {
	if c.Chain.SS58Prefix != 0 {
		return c.Chain.SS58Prefix
	}
	return substrateaddress.DefaultPrefix
}

func (c *Client) signerKey(ctx context.Context) ([]byte, error) {
	if c.signer == nil {
		return nil, xc.Errorf(xc.ErrSignerUnavailable, "no signer configured for %s", c.Chain.Name)
	}
	pub, err := c.signer.PublicKey(ctx)
	if err != nil {
		return nil, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	if len(pub) != 32 {
		return nil, xc.Errorf(xc.ErrSignerUnavailable, "expected 32 byte sr25519 key, got %d", len(pub))
	}
	return pub, nil
}

func (c *Client) SignerAddress(ctx context.Context) (xc.Address, error) {
	pub, err := c.signerKey(ctx)
	if err != nil {
		return "", err
	}
	addr, err := substrateaddress.Encode(pub, c.ss58Prefix())
	if err != nil {
		return "", xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	return xc.Address(addr), nil
}

// accountKey accepts SS58 of any network or a 0x-prefixed 32 byte key.
func accountKey(address xc.Address) ([]byte, error) {
	if strings.HasPrefix(string(address), "0x") {
		key, err := hex.DecodeString(strings.TrimPrefix(string(address), "0x"))
		if err == nil && len(key) == 32 {
			return key, nil
		}
		return nil, xc.Errorf(xc.ErrInvalidDestination, "invalid account %s", address)
	}
	key, _, err := substrateaddress.Decode(string(address))
	if err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidDestination, err)
	}
	if len(key) != 32 {
		return nil, xc.Errorf(xc.ErrInvalidDestination, "expected 32 byte account, got %d", len(key))
	}
	return key, nil
}

func u128ToBigInt(v types.U128) xc.BigInt {
	if v.Int == nil {
		return xc.NewBigIntFromUint64(0)
	}
	return xc.BigInt(*new(big.Int).Set(v.Int))
}

// FetchNativeBalance reads the free balance from System.Account. An
// account that does not exist holds zero.
func (c *Client) FetchNativeBalance(ctx context.Context, address xc.Address) (xc.BigInt, error) {
	key, err := accountKey(address)
	if err != nil {
		return xc.BigInt{}, err
	}
	var info types.AccountInfo
	ok, err := c.conn.Storage(ctx, "System", "Account", &info, key)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrOracleUnavailable, err)
	}
	if !ok {
		return xc.NewBigIntFromUint64(0), nil
	}
	return u128ToBigInt(info.Data.Free), nil
}

// AssetAccount is the leading field of an Assets.Account entry.
type AssetAccount struct {
	Balance types.U128
}

// FetchAssetBalance reads Assets.Account(asset id, account).balance.
func (c *Client) FetchAssetBalance(ctx context.Context, address xc.Address, asset *xc.Asset) (xc.BigInt, error) {
	if asset == nil || asset.Native {
		return c.FetchNativeBalance(ctx, address)
	}
	key, err := accountKey(address)
	if err != nil {
		return xc.BigInt{}, err
	}
	assetKey, err := c.encodeAssetID(asset.AssetID)
	if err != nil {
		return xc.BigInt{}, err
	}
	var account AssetAccount
	ok, err := c.conn.Storage(ctx, "Assets", "Account", &account, assetKey, key)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrOracleUnavailable, err)
	}
	if !ok {
		return xc.NewBigIntFromUint64(0), nil
	}
	return u128ToBigInt(account.Balance), nil
}

func (c *Client) encodeAssetID(id uint64) ([]byte, error) {
	switch strings.ToLower(c.Chain.AssetIDType) {
	case "", AssetIDTypeU32:
		if id > uint64(^uint32(0)) {
			return nil, xc.Errorf(xc.ErrInvalidConfig, "asset id %d does not fit u32", id)
		}
		return codec.Encode(types.NewU32(uint32(id)))
	case AssetIDTypeU128:
		return codec.Encode(types.NewU128(*new(big.Int).SetUint64(id)))
	}
	return nil, xc.Errorf(xc.ErrInvalidConfig, "unknown asset id type %q", c.Chain.AssetIDType)
}

// EstimateFee prices the reference weight of the call at the configured
// fee per weight unit. Both must be configured.
func (c *Client) EstimateFee(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation) (*xc.FeeQuote, error) {
	if _, err := c.txBuilder.BuildBridgeCall(req, loc); err != nil {
		return nil, err
	}
	if c.Chain.RefWeight == 0 || c.Chain.FeePerWeight == 0 {
		return nil, xc.Errorf(xc.ErrFeeEstimationFailed, "ref_weight and fee_per_weight must be configured for %s", c.Chain.Name)
	}
	units := xc.NewBigIntFromUint64(c.Chain.RefWeight)
	price := xc.NewBigIntFromUint64(c.Chain.FeePerWeight)
	return &xc.FeeQuote{
		Chain:        xc.BlockchainSubstrate,
		Units:        c.Chain.RefWeight,
		PricePerUnit: price,
		PriorityFee:  xc.NewBigIntFromUint64(0),
		Total:        units.Mul(&price),
	}, nil
}

func (c *Client) BuildBridgeTransfer(ctx context.Context, req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	return c.txBuilder.NewBridgeTransfer(req, loc, quote)
}

// SignAndDispatch signs with a fresh account index and runtime version,
// then submits and subscribes to the extrinsic's status.
func (c *Client) SignAndDispatch(ctx context.Context, unsigned xc.Tx) (*xc.SubmissionHandle, xclient.Watch, error) {
	extrinsic, ok := unsigned.(*tx.Tx)
	if !ok {
		return nil, nil, errors.Errorf("unexpected transaction type %T", unsigned)
	}
	pub, err := c.signerKey(ctx)
	if err != nil {
		return nil, nil, err
	}
	from, err := substrateaddress.Encode(pub, c.ss58Prefix())
	if err != nil {
		return nil, nil, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}

	nonce, err := c.conn.AccountNextIndex(ctx, from)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch account index")
	}
	runtime, err := c.conn.RuntimeVersion(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch runtime version")
	}
	genesis, err := c.conn.GenesisHash(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch genesis hash")
	}

	signed := extrinsic.WithSigning(pub, types.SignatureOptions{
		BlockHash:          genesis,
		Era:                types.ExtrinsicEra{IsImmortalEra: true},
		GenesisHash:        genesis,
		Nonce:              types.NewUCompactFromUInt(nonce),
		SpecVersion:        runtime.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: runtime.TransactionVersion,
	})
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

	sub, err := c.conn.SubmitAndWatch(ctx, signed.Extrinsic)
	if err != nil {
		return nil, nil, err
	}
	handle := &xc.SubmissionHandle{
		Chain:       xc.BlockchainSubstrate,
		Hash:        signed.Hash(),
		Nonce:       nonce,
		SubmittedAt: time.Now(),
	}
	c.logger.Info("dispatched", zap.String("hash", string(handle.Hash)), zap.Uint64("nonce", nonce))
	return handle, newStatusWatch(c, sub), nil
}

// InspectInclusion lists the extrinsic's events in blockHash and decodes
// System.ExtrinsicFailed when present.
func (c *Client) InspectInclusion(ctx context.Context, handle *xc.SubmissionHandle, blockHash string) (*xc.Inclusion, error) {
	block, err := types.NewHashFromHexString(blockHash)
	if err != nil {
		return nil, errors.Wrap(err, "block hash")
	}
	extrinsic, err := types.NewHashFromHexString(string(handle.Hash))
	if err != nil {
		return nil, errors.Wrap(err, "extrinsic hash")
	}
	events, err := c.conn.ExtrinsicEvents(ctx, block, extrinsic)
	if err != nil {
		return nil, err
	}
	inclusion := &xc.Inclusion{BlockHash: blockHash}
	if number, err := c.conn.BlockNumber(ctx, block); err == nil {
		inclusion.BlockNumber = number
	} else {
		c.logger.Debug("could not read block number", zap.Error(err))
	}
	for _, event := range events {
		inclusion.Events = append(inclusion.Events, lowerFirst(event.Pallet)+"."+event.Name)
		if event.Pallet == "System" && event.Name == "ExtrinsicFailed" && inclusion.Failure == nil {
			failure := c.errors.Decode(event.DispatchError)
			inclusion.Failure = &failure
		}
	}
	return inclusion, nil
}

func (c *Client) CheckError(err error) xclient.ClientError {
	return CheckError(err)
}
