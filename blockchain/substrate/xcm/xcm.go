// Package xcm encodes the XCM v4 values passed to PolkadotXcm calls.
package xcm

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Version is the only XCM version this package emits.
const Version byte = 4

// MaxJunctions is the widest interior XCM v4 supports.
const MaxJunctions = 8

const (
	junctionParachain      byte = 0
	junctionAccountId32    byte = 1
	junctionAccountKey20   byte = 3
	junctionPalletInstance byte = 4
	junctionGeneralIndex   byte = 5
)

// Junction is one step of a location's interior.
type Junction interface {
	scale.Encodeable
	String() string
}

type Parachain uint32

func (p Parachain) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(junctionParachain); err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*new(big.Int).SetUint64(uint64(p)))
}

func (p Parachain) String() string { return fmt.Sprintf("Parachain(%d)", uint32(p)) }

// AccountId32 is a 32 byte account with no network qualifier.
type AccountId32 [32]byte

func (a AccountId32) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(junctionAccountId32); err != nil {
		return err
	}
	// network: None
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	return encoder.Write(a[:])
}

func (a AccountId32) String() string { return fmt.Sprintf("AccountId32(0x%x)", a[:]) }

// AccountKey20 is a 20 byte account with no network qualifier.
type AccountKey20 [20]byte

func (a AccountKey20) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(junctionAccountKey20); err != nil {
		return err
	}
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	return encoder.Write(a[:])
}

func (a AccountKey20) String() string { return fmt.Sprintf("AccountKey20(0x%x)", a[:]) }

type PalletInstance uint8

func (p PalletInstance) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(junctionPalletInstance); err != nil {
		return err
	}
	return encoder.PushByte(byte(p))
}

func (p PalletInstance) String() string { return fmt.Sprintf("PalletInstance(%d)", uint8(p)) }

// GeneralIndex carries a u128 index, typically an asset id.
type GeneralIndex struct {
	Index *big.Int
}

func NewGeneralIndex(index uint64) GeneralIndex {
	return GeneralIndex{Index: new(big.Int).SetUint64(index)}
}

func (g GeneralIndex) Encode(encoder scale.Encoder) error {
	if g.Index == nil || g.Index.Sign() < 0 {
		return fmt.Errorf("general index must be a non-negative integer")
	}
	if err := encoder.PushByte(junctionGeneralIndex); err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*g.Index)
}

func (g GeneralIndex) String() string { return fmt.Sprintf("GeneralIndex(%s)", g.Index) }

// Location is parents plus an interior of at most MaxJunctions steps.
type Location struct {
	Parents  uint8
	Interior []Junction
}

func (l Location) Encode(encoder scale.Encoder) error {
	if len(l.Interior) > MaxJunctions {
		return fmt.Errorf("location has %d junctions, at most %d allowed", len(l.Interior), MaxJunctions)
	}
	if err := encoder.PushByte(l.Parents); err != nil {
		return err
	}
	// Here is variant 0, Xn is variant n followed by n junctions
	if err := encoder.PushByte(byte(len(l.Interior))); err != nil {
		return err
	}
	for _, junction := range l.Interior {
		if err := encoder.Encode(junction); err != nil {
			return err
		}
	}
	return nil
}

// VersionedLocation wraps a Location in the V4 variant.
type VersionedLocation struct {
	V4 Location
}

func (v VersionedLocation) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(Version); err != nil {
		return err
	}
	return encoder.Encode(v.V4)
}

// Asset is a fungible amount of the asset identified by ID.
type Asset struct {
	ID     Location
	Amount *big.Int
}

func (a Asset) Encode(encoder scale.Encoder) error {
	if a.Amount == nil || a.Amount.Sign() < 0 {
		return fmt.Errorf("asset amount must be a non-negative integer")
	}
	if err := encoder.Encode(a.ID); err != nil {
		return err
	}
	// Fungibility::Fungible
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*a.Amount)
}

type VersionedAssets struct {
	V4 []Asset
}

func (v VersionedAssets) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(Version); err != nil {
		return err
	}
	if err := encoder.EncodeUintCompact(*big.NewInt(int64(len(v.V4)))); err != nil {
		return err
	}
	for _, asset := range v.V4 {
		if err := encoder.Encode(asset); err != nil {
			return err
		}
	}
	return nil
}

// WeightLimit is either Unlimited or a two dimensional weight.
type WeightLimit struct {
	Limited   bool
	RefTime   uint64
	ProofSize uint64
}

var Unlimited = WeightLimit{}

func (w WeightLimit) Encode(encoder scale.Encoder) error {
	if !w.Limited {
		return encoder.PushByte(0)
	}
	if err := encoder.PushByte(1); err != nil {
		return err
	}
	if err := encoder.EncodeUintCompact(*new(big.Int).SetUint64(w.RefTime)); err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*new(big.Int).SetUint64(w.ProofSize))
}

// SiblingDestination is the location of a sibling parachain.
func SiblingDestination(routingID uint32) VersionedLocation {
	return VersionedLocation{V4: Location{Parents: 1, Interior: []Junction{Parachain(routingID)}}}
}

// Beneficiary is a local account on the destination chain. Twenty byte keys
// become AccountKey20, thirty-two byte keys AccountId32.
func Beneficiary(key []byte) (VersionedLocation, error) {
	var junction Junction
	switch len(key) {
	case 20:
		var k AccountKey20
		copy(k[:], key)
		junction = k
	case 32:
		var k AccountId32
		copy(k[:], key)
		junction = k
	default:
		return VersionedLocation{}, fmt.Errorf("unsupported account key length %d", len(key))
	}
	return VersionedLocation{V4: Location{Parents: 0, Interior: []Junction{junction}}}, nil
}

// LocalAsset identifies an asset held by a pallet on the sending chain.
func LocalAsset(palletInstance uint8, assetID uint64, amount *big.Int) Asset {
	return Asset{
		ID: Location{
			Parents:  0,
			Interior: []Junction{PalletInstance(palletInstance), NewGeneralIndex(assetID)},
		},
		Amount: amount,
	}
}
