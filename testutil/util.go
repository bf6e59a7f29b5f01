package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	xc "github.com/openweb3-io/xcbridge/types"
)

// Well known development accounts.
const (
	AlicePublicKey = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	AliceSS58      = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	BaltatharEVM   = "0x3cd0a705a2dc65e5b1e1205896baa2be8a07c6e0"

	// Published Moonbeam development key for BaltatharEVM.
	BaltatharPrivateKey = "0x8075991ce870b93a8870eca0c0f91913d12f47948ca0fd25b49c6fa7cdbeee8b"
)

func FromHex(s string) []byte {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		panic(err)
	}
	return bz
}

func HumanToBlockchain(amount string, decimals int) xc.BigInt {
	h, err := xc.NewAmountHumanReadableFromStr(amount)
	if err != nil {
		panic(err)
	}
	return h.ToBlockchain(int32(decimals))
}

func JsonPrint(a any) {
	bz, _ := json.MarshalIndent(a, "", "  ")
	fmt.Println(string(bz))
}
