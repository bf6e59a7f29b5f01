package tx

import (
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	xc "github.com/openweb3-io/xcbridge/types"
	"golang.org/x/crypto/blake2b"
)

// Tx is an extrinsic for a single call. The builder leaves it without
// signing options; the client binds them per dispatch with WithSigning.
type Tx struct {
	Call       types.Call
	Extrinsic  types.Extrinsic
	Options    *types.SignatureOptions
	SignerKey  []byte
	Signatures []xc.TxSignature
}

var _ xc.Tx = &Tx{}

func NewTx(call types.Call) *Tx {
	return &Tx{
		Call:      call,
		Extrinsic: types.NewExtrinsic(call),
	}
}

// WithSigning returns an unsigned copy bound to the signer and options.
func (tx *Tx) WithSigning(signerKey []byte, opts types.SignatureOptions) *Tx {
	key := make([]byte, len(signerKey))
	copy(key, signerKey)
	return &Tx{
		Call:      tx.Call,
		Extrinsic: types.NewExtrinsic(tx.Call),
		Options:   &opts,
		SignerKey: key,
	}
}

func (tx *Tx) IsSigned() bool {
	return tx.Extrinsic.IsSigned()
}

// Hash is the blake2b-256 of the encoded extrinsic, empty until signed.
func (tx *Tx) Hash() xc.TxHash {
	if !tx.IsSigned() {
		return xc.TxHash("")
	}
	hash, err := tx.ExtrinsicHash()
	if err != nil {
		return xc.TxHash("")
	}
	return xc.TxHash("0x" + hex.EncodeToString(hash[:]))
}

func (tx *Tx) ExtrinsicHash() (types.Hash, error) {
	bz, err := codec.Encode(tx.Extrinsic)
	if err != nil {
		return types.Hash{}, err
	}
	sum := blake2b.Sum256(bz)
	return types.NewHash(sum[:]), nil
}

func (tx *Tx) era() types.ExtrinsicEra {
	if tx.Options.Era.IsMortalEra {
		return tx.Options.Era
	}
	return types.ExtrinsicEra{IsImmortalEra: true}
}

// Sighashes returns the signing payload. Signers hash payloads longer
// than 256 bytes themselves.
func (tx *Tx) Sighashes() ([]xc.TxDataToSign, error) {
	if tx.Options == nil {
		return nil, errors.New("signing options not set")
	}
	method, err := codec.Encode(tx.Call)
	if err != nil {
		return nil, err
	}
	payload := types.ExtrinsicPayloadV4{
		ExtrinsicPayloadV3: types.ExtrinsicPayloadV3{
			Method:      method,
			Era:         tx.era(),
			Nonce:       tx.Options.Nonce,
			Tip:         tx.Options.Tip,
			SpecVersion: tx.Options.SpecVersion,
			GenesisHash: tx.Options.GenesisHash,
			BlockHash:   tx.Options.BlockHash,
		},
		TransactionVersion: tx.Options.TransactionVersion,
	}
	bz, err := codec.Encode(payload)
	if err != nil {
		return nil, err
	}
	return []xc.TxDataToSign{bz}, nil
}

// AddSignatures attaches an sr25519 signature made by SignerKey.
func (tx *Tx) AddSignatures(signatures ...xc.TxSignature) error {
	if tx.Options == nil {
		return errors.New("signing options not set")
	}
	if len(signatures) == 0 {
		return errors.New("no signature provided")
	}
	if len(signatures[0]) != 64 {
		return errors.New("sr25519 signature must be 64 bytes")
	}
	signer, err := types.NewMultiAddressFromAccountID(tx.SignerKey)
	if err != nil {
		return err
	}
	tx.Extrinsic.Signature = types.ExtrinsicSignatureV4{
		Signer:    signer,
		Signature: types.MultiSignature{IsSr25519: true, AsSr25519: types.NewSignature(signatures[0])},
		Era:       tx.era(),
		Nonce:     tx.Options.Nonce,
		Tip:       tx.Options.Tip,
	}
	tx.Extrinsic.Version |= types.ExtrinsicBitSigned
	tx.Signatures = []xc.TxSignature{signatures[0]}
	return nil
}

func (tx *Tx) GetSignatures() []xc.TxSignature {
	return tx.Signatures
}

func (tx *Tx) Serialize() ([]byte, error) {
	return codec.Encode(tx.Extrinsic)
}

// Nonce is the bound account index, or zero before WithSigning.
func (tx *Tx) Nonce() uint64 {
	if tx.Options == nil {
		return 0
	}
	nonce := big.Int(tx.Options.Nonce)
	return nonce.Uint64()
}
