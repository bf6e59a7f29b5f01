package client

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/testutil"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestErrorRegistryLookup(t *testing.T) {
	r := NewErrorRegistry(testutil.NewMetadata())

	require.Equal(t, xc.DecodedFailure{
		Module: "balances",
		Method: "InsufficientBalance",
		Docs:   "Balance too low to send value.",
	}, r.Lookup(ModuleError{Index: testutil.BalancesPalletIndex, Error: [4]byte{testutil.InsufficientBalanceIndex}}))

	unreachable := r.Lookup(ModuleError{Index: testutil.PolkadotXcmPalletIndex})
	require.Equal(t, "polkadotXcm", unreachable.Module)
	require.Equal(t, "Unreachable", unreachable.Method)
	require.Equal(t, "The desired destination was unreachable, generally because there is a no way of routing to it.", unreachable.Docs)

	require.Equal(t, xc.DecodedFailure{Module: "pallet99", Method: "Error7"},
		r.Lookup(ModuleError{Index: 99, Error: [4]byte{7}}))
}

func TestErrorRegistryDecode(t *testing.T) {
	r := NewErrorRegistry(testutil.NewMetadata())

	require.Equal(t, "system.ExtrinsicFailed", r.Decode(nil).String())
	require.Equal(t, "dispatch.BadOrigin", r.Decode(&DispatchError{Kind: "BadOrigin"}).String())
	require.Equal(t, "polkadotXcm.Filtered: The message execution fails the filter.",
		r.Decode(&DispatchError{Module: &ModuleError{Index: testutil.PolkadotXcmPalletIndex, Error: [4]byte{testutil.FilteredIndex}}}).String())

	empty := NewErrorRegistry(nil)
	require.Equal(t, "pallet10.Error2", empty.Decode(&DispatchError{Module: &ModuleError{Index: 10, Error: [4]byte{2}}}).String())
}

func TestDispatchErrorFromFields(t *testing.T) {
	module := registry.DecodedFields{
		&registry.DecodedField{
			Name: "sp_runtime.DispatchError.dispatch_error",
			Value: registry.DecodedFields{
				&registry.DecodedField{
					Name: "Module",
					Value: registry.DecodedFields{
						&registry.DecodedField{Name: "index", Value: types.U8(31)},
						&registry.DecodedField{Name: "error", Value: []any{types.U8(5), types.U8(0), types.U8(0), types.U8(0)}},
					},
				},
			},
		},
		&registry.DecodedField{Name: "dispatch_info", Value: registry.DecodedFields{}},
	}
	require.Equal(t, &DispatchError{Module: &ModuleError{Index: 31, Error: [4]byte{5}}}, dispatchErrorFromFields(module))

	unit := registry.DecodedFields{
		&registry.DecodedField{Name: "dispatch_error", Value: types.U8(2)},
	}
	require.Equal(t, &DispatchError{Kind: "BadOrigin"}, dispatchErrorFromFields(unit))

	unknown := registry.DecodedFields{
		&registry.DecodedField{Name: "dispatch_error", Value: types.U8(200)},
	}
	require.Equal(t, &DispatchError{Kind: "DispatchError(200)"}, dispatchErrorFromFields(unknown))

	require.Equal(t, &DispatchError{Kind: "DispatchError"}, dispatchErrorFromFields(nil))
}

func TestDispatchErrorWithPayload(t *testing.T) {
	nested := func(name string, value any) registry.DecodedFields {
		return registry.DecodedFields{
			&registry.DecodedField{
				Name:  "dispatch_error",
				Value: registry.DecodedFields{&registry.DecodedField{Name: name, Value: value}},
			},
		}
	}

	for _, tc := range []struct {
		name     string
		fields   registry.DecodedFields
		expected string
	}{
		{"token by type path", nested("sp_runtime.TokenError", types.U8(0)), "Token.FundsUnavailable"},
		{"token by variant", nested("Token", types.U8(5)), "Token.Frozen"},
		{"arithmetic", nested("sp_arithmetic.ArithmeticError", types.U8(1)), "Arithmetic.Overflow"},
		{"transactional", nested("sp_runtime.TransactionalError",
			registry.DecodedFields{&registry.DecodedField{Name: "inner", Value: types.U8(1)}}), "Transactional.NoLayer"},
		{"unknown inner variant", nested("Arithmetic", types.U8(9)), "Arithmetic(9)"},
		{"undecodable payload", nested("Token", "?"), "Token"},
		{"unrelated payload", nested("something", types.U8(0)), "DispatchError"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, &DispatchError{Kind: tc.expected}, dispatchErrorFromFields(tc.fields))
		})
	}

	r := NewErrorRegistry(nil)
	require.Equal(t, "dispatch.Token.FundsUnavailable",
		r.Decode(dispatchErrorFromFields(nested("sp_runtime.TokenError", types.U8(0)))).String())
}

func TestExtrinsicIndex(t *testing.T) {
	first := []byte{0x04, 0x01}
	second := []byte{0x08, 0x02, 0x03}
	hash := types.Hash(blake2b.Sum256(second))

	index, ok := extrinsicIndex([]string{"0x" + hex.EncodeToString(first), "zz", "0x" + hex.EncodeToString(second)}, hash)
	require.True(t, ok)
	require.EqualValues(t, 2, index)

	_, ok = extrinsicIndex([]string{"0x" + hex.EncodeToString(first)}, hash)
	require.False(t, ok)
}

func TestCheckError(t *testing.T) {
	for _, tc := range []struct {
		err      string
		expected xclient.ClientError
	}{
		{"1010: Invalid Transaction: Transaction is outdated", xclient.TransactionOutdated},
		{"1010: Invalid Transaction: Stale", xclient.TransactionOutdated},
		{"1010: Invalid Transaction: Inability to pay some fees (e.g. account balance too low)", xclient.NoBalance},
		{"1014: Priority is too low: (100 vs 100)", xclient.PriorityTooLow},
		{"1013: Transaction Already Imported", xclient.TransactionExists},
		{"something else", xclient.UnknownError},
	} {
		require.Equal(t, tc.expected, CheckError(errors.New(tc.err)), tc.err)
	}
}
