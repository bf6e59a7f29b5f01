package tx

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	xc "github.com/openweb3-io/xcbridge/types"
)

// Tx is a dynamic fee transaction. The builder leaves the nonce at zero;
// the client assigns it per dispatch with WithNonce.
type Tx struct {
	EthTx      *types.Transaction
	Signer     types.Signer
	Signatures []xc.TxSignature
}

var _ xc.Tx = &Tx{}

func (tx *Tx) Hash() xc.TxHash {
	if tx.EthTx != nil {
		return xc.TxHash(tx.EthTx.Hash().Hex())
	}
	return xc.TxHash("")
}

// Sighashes returns the tx payload to sign, aka sighash
func (tx *Tx) Sighashes() ([]xc.TxDataToSign, error) {
	if tx.EthTx == nil {
		return []xc.TxDataToSign{}, errors.New("transaction not initialized")
	}
	sighash := tx.Signer.Hash(tx.EthTx).Bytes()
	return []xc.TxDataToSign{sighash}, nil
}

// AddSignatures adds a signature to Tx
func (tx *Tx) AddSignatures(signatures ...xc.TxSignature) error {
	if tx.EthTx == nil {
		return errors.New("transaction not initialized")
	}
	if len(signatures) == 0 {
		return errors.New("no signature provided")
	}

	signedTx, err := tx.EthTx.WithSignature(tx.Signer, signatures[0])
	if err != nil {
		return err
	}
	tx.EthTx = signedTx
	tx.Signatures = []xc.TxSignature{signatures[0]}
	return nil
}

func (tx *Tx) GetSignatures() []xc.TxSignature {
	return tx.Signatures
}

// Serialize returns the serialized tx
func (tx *Tx) Serialize() ([]byte, error) {
	if tx.EthTx == nil {
		return []byte{}, errors.New("transaction not initialized")
	}
	return tx.EthTx.MarshalBinary()
}

// WithNonce returns an unsigned copy carrying nonce.
func (tx *Tx) WithNonce(nonce uint64) (*Tx, error) {
	if tx.EthTx == nil {
		return nil, errors.New("transaction not initialized")
	}
	inner := tx.EthTx
	return &Tx{
		EthTx: types.NewTx(&types.DynamicFeeTx{
			ChainID:    inner.ChainId(),
			Nonce:      nonce,
			GasTipCap:  inner.GasTipCap(),
			GasFeeCap:  inner.GasFeeCap(),
			Gas:        inner.Gas(),
			To:         inner.To(),
			Value:      inner.Value(),
			Data:       inner.Data(),
			AccessList: inner.AccessList(),
		}),
		Signer: tx.Signer,
	}, nil
}

// MaxCost is gas times fee cap, the most this transaction can charge.
func (tx *Tx) MaxCost() xc.BigInt {
	if tx.EthTx == nil {
		return xc.NewBigIntFromUint64(0)
	}
	cost := new(big.Int).Mul(new(big.Int).SetUint64(tx.EthTx.Gas()), tx.EthTx.GasFeeCap())
	return xc.BigInt(*cost)
}
