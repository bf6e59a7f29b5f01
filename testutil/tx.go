package testutil

import (
	xc "github.com/openweb3-io/xcbridge/types"
)

// MockXcTx stands in for a chain transaction where only its identity matters.
type MockXcTx struct {
	TxHash             xc.TxHash
	SerializedSignedTx []byte
	Signatures         []xc.TxSignature
}

var _ xc.Tx = &MockXcTx{}

func (tx *MockXcTx) Hash() xc.TxHash {
	return tx.TxHash
}
func (tx *MockXcTx) Sighashes() ([]xc.TxDataToSign, error) {
	return []xc.TxDataToSign{xc.TxDataToSign(tx.TxHash)}, nil
}
func (tx *MockXcTx) AddSignatures(sigs ...xc.TxSignature) error {
	tx.Signatures = append(tx.Signatures, sigs...)
	return nil
}
func (tx *MockXcTx) GetSignatures() []xc.TxSignature {
	return tx.Signatures
}
func (tx *MockXcTx) Serialize() ([]byte, error) {
	return tx.SerializedSignedTx, nil
}
