package signer

import (
	"context"

	xc "github.com/openweb3-io/xcbridge/types"
)

// Signer is the host-supplied signing capability. Implementations own the
// key material; callers only ever see public keys and signatures.
type Signer interface {
	PublicKey(ctx context.Context) ([]byte, error)
	Sign(ctx context.Context, payload xc.TxDataToSign) (xc.TxSignature, error)
}
