package types

// BridgeRequest is one user-initiated transfer. It is immutable once
// validation begins.
type BridgeRequest struct {
	TransferAsset AssetAmount `json:"transferAsset"`
	// Optional; when nil the transfer asset pays its own bridge fee.
	FeeAsset             *AssetAmount `json:"feeAsset,omitempty"`
	SourceChain          string       `json:"sourceChain"`
	TargetChain          string       `json:"targetChain"`
	DestinationAddress   string       `json:"destinationAddress"`
	DestinationRoutingID uint32       `json:"destinationRoutingId"`
	// When false an in-block inclusion without a failure event is success.
	WaitForFinalization bool `json:"waitForFinalization"`
}

// FeeQuote sizes a transaction before it is built.
type FeeQuote struct {
	Chain Blockchain `json:"chain"`
	// Gas on EVM chains, reference weight on Substrate chains.
	Units        uint64 `json:"units"`
	PricePerUnit BigInt `json:"pricePerUnit"`
	PriorityFee  BigInt `json:"priorityFee"`
	// Worst case cost in the chain's native minor units.
	Total BigInt `json:"total"`
}

// AccountKind is the account junction a routing location resolves to.
type AccountKind string

const (
	AccountId32   = AccountKind("AccountId32")
	AccountKey20  = AccountKind("AccountKey20")
	AccountNotSet = AccountKind("")
)

// RoutingLocation describes which chain and which account a cross-chain
// message is delivered to.
type RoutingLocation struct {
	Chain      Blockchain  `json:"chain"`
	Parents    uint8       `json:"parents"`
	RoutingID  uint32      `json:"routingId"`
	Address    string      `json:"address"`
	Kind       AccountKind `json:"kind"`
	AccountKey []byte      `json:"accountKey"`
}
