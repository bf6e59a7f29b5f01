package types

import (
	"slices"
	"strings"
)

type SignatureType string

const (
	K256Keccak = SignatureType("k256-keccak")
	Sr25519    = SignatureType("sr25519")
)

// Blockchain is the type of a chain
type Blockchain string

// List of supported Blockchain
const (
	BlockchainEVM       = Blockchain("evm")
	BlockchainSubstrate = Blockchain("substrate")
)

var SupportedBlockchains = []Blockchain{
	BlockchainEVM,
	BlockchainSubstrate,
}

func (blockchain Blockchain) Valid() bool {
	return slices.Contains(SupportedBlockchains, blockchain)
}

// ParseBlockchain accepts the kind names case-insensitively.
func ParseBlockchain(s string) (Blockchain, bool) {
	b := Blockchain(strings.ToLower(strings.TrimSpace(s)))
	return b, b.Valid()
}

func (blockchain Blockchain) SignatureAlgorithm() SignatureType {
	switch blockchain {
	case BlockchainEVM:
		return K256Keccak
	case BlockchainSubstrate:
		return Sr25519
	}
	return ""
}

// HashPrefix is the textual prefix of transaction hashes on this kind of chain.
func (blockchain Blockchain) HashPrefix() string {
	return "0x"
}

// ChainRole is the role an endpoint plays in a session.
type ChainRole string

const (
	RoleSource = ChainRole("source")
	RoleTarget = ChainRole("target")
)

// Direction selects which endpoint originates a bridge transfer.
type Direction string

const (
	SourceToTarget = Direction("source_to_target")
	TargetToSource = Direction("target_to_source")
)

// Roles returns the originating and receiving roles for the direction.
func (d Direction) Roles() (from ChainRole, to ChainRole) {
	if d == TargetToSource {
		return RoleTarget, RoleSource
	}
	return RoleSource, RoleTarget
}
