package address_test

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/address"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

// well known development account
const alicePub = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

func TestGetAddressFromPublicKey(t *testing.T) {
	pub, _ := hex.DecodeString(alicePub)

	builder, err := address.NewAddressBuilder(&xc.ChainConfig{})
	require.NoError(t, err)
	addr, err := builder.GetAddressFromPublicKey(pub)
	require.NoError(t, err)
	require.Equal(t, xc.Address("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"), addr)

	_, err = builder.GetAddressFromPublicKey(pub[:20])
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	key, prefix, err := address.Decode("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	require.NoError(t, err)
	require.EqualValues(t, 42, prefix)
	require.Equal(t, alicePub, hex.EncodeToString(key))

	key, prefix, err = address.Decode("15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5")
	require.NoError(t, err)
	require.EqualValues(t, 0, prefix)
	require.Equal(t, alicePub, hex.EncodeToString(key))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ",
		"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKut",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"not an address at all",
		"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY0",
		base58.Encode([]byte{0x40, 0, 0}),
		base58.Encode([]byte{0x7f, 0xff, 0, 0}),
		base58.Encode(append([]byte{0x40}, make([]byte, 34)...)),
	} {
		require.NotPanics(t, func() {
			_, _, err := address.Decode(input)
			require.Error(t, err, input)
		}, input)
	}
}

func TestRoundTripPrefixes(t *testing.T) {
	pub, _ := hex.DecodeString(alicePub)
	for _, prefix := range []uint16{0, 2, 42, 63, 64, 1284, 16383} {
		s, err := address.Encode(pub, prefix)
		require.NoError(t, err)

		key, got, err := address.Decode(s)
		require.NoError(t, err)
		require.Equal(t, prefix, got)
		require.Equal(t, pub, key)
		require.True(t, address.Valid(s, prefix))
	}
	_, err := address.Encode(pub, 16384)
	require.Error(t, err)
}

func TestValidChecksPrefix(t *testing.T) {
	require.True(t, address.Valid("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", 42))
	require.False(t, address.Valid("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", 0))
}
