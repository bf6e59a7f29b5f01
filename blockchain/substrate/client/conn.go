package client

//go:generate mockgen -destination=mocks/mock_conn.go -package=mocks . Conn

import (
	"context"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"sync"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// StatusSubscription streams the pool status of one extrinsic.
type StatusSubscription interface {
	Chan() <-chan types.ExtrinsicStatus
	Err() <-chan error
	Unsubscribe()
}

// ModuleError is a pallet error as found in a dispatch error.
type ModuleError struct {
	Index uint8
	Error [4]byte
}

type DispatchError struct {
	Module *ModuleError
	// Kind names the variant of non-module errors, e.g. BadOrigin.
	Kind string
}

// Event is one runtime event emitted while applying an extrinsic.
type Event struct {
	Pallet string
	Name   string
	// Set for System.ExtrinsicFailed.
	DispatchError *DispatchError
}

// Conn is the node connection the client needs.
type Conn interface {
	Metadata(ctx context.Context) (*types.Metadata, error)
	RuntimeVersion(ctx context.Context) (*types.RuntimeVersion, error)
	GenesisHash(ctx context.Context) (types.Hash, error)
	// Storage reads pallet.item at the best block; false means the value is absent.
	Storage(ctx context.Context, pallet, item string, target interface{}, keys ...[]byte) (bool, error)
	AccountNextIndex(ctx context.Context, address string) (uint64, error)
	SubmitAndWatch(ctx context.Context, xt types.Extrinsic) (StatusSubscription, error)
	BlockNumber(ctx context.Context, blockHash types.Hash) (uint64, error)
	// ExtrinsicEvents lists the events of the extrinsic with the given hash in a block.
	ExtrinsicEvents(ctx context.Context, blockHash types.Hash, extrinsicHash types.Hash) ([]Event, error)
	Close()
}

type gsrpcConn struct {
	api    *gsrpc.SubstrateAPI
	events retriever.EventRetriever

	mu   sync.Mutex
	meta *types.Metadata
}

var _ Conn = &gsrpcConn{}

// Dial connects over websocket or http.
func Dial(ctx context.Context, url string) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing url: %v", url)
	}
	events, err := retriever.NewDefaultEventRetriever(state.NewEventProvider(api.RPC.State), api.RPC.State)
	if err != nil {
		return nil, errors.Wrap(err, "create event retriever")
	}
	return &gsrpcConn{api: api, events: events}, nil
}

func (c *gsrpcConn) Metadata(ctx context.Context) (*types.Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meta != nil {
		return c.meta, nil
	}
	meta, err := c.api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, err
	}
	c.meta = meta
	return meta, nil
}

func (c *gsrpcConn) RuntimeVersion(ctx context.Context) (*types.RuntimeVersion, error) {
	return c.api.RPC.State.GetRuntimeVersionLatest()
}

func (c *gsrpcConn) GenesisHash(ctx context.Context) (types.Hash, error) {
	return c.api.RPC.Chain.GetBlockHash(0)
}

func (c *gsrpcConn) Storage(ctx context.Context, pallet, item string, target interface{}, keys ...[]byte) (bool, error) {
	meta, err := c.Metadata(ctx)
	if err != nil {
		return false, err
	}
	key, err := types.CreateStorageKey(meta, pallet, item, keys...)
	if err != nil {
		return false, errors.Wrapf(err, "storage key %s.%s", pallet, item)
	}
	return c.api.RPC.State.GetStorageLatest(key, target)
}

func (c *gsrpcConn) AccountNextIndex(ctx context.Context, address string) (uint64, error) {
	var nonce uint64
	if err := c.api.Client.Call(&nonce, "system_accountNextIndex", address); err != nil {
		return 0, err
	}
	return nonce, nil
}

func (c *gsrpcConn) SubmitAndWatch(ctx context.Context, xt types.Extrinsic) (StatusSubscription, error) {
	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(xt)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (c *gsrpcConn) BlockNumber(ctx context.Context, blockHash types.Hash) (uint64, error) {
	header, err := c.api.RPC.Chain.GetHeader(blockHash)
	if err != nil {
		return 0, err
	}
	return uint64(header.Number), nil
}

type rawBlock struct {
	Block struct {
		Extrinsics []string `json:"extrinsics"`
	} `json:"block"`
}

func (c *gsrpcConn) ExtrinsicEvents(ctx context.Context, blockHash types.Hash, extrinsicHash types.Hash) ([]Event, error) {
	var block rawBlock
	if err := c.api.Client.Call(&block, "chain_getBlock", blockHash.Hex()); err != nil {
		return nil, err
	}
	index, ok := extrinsicIndex(block.Block.Extrinsics, extrinsicHash)
	if !ok {
		return nil, errors.Errorf("extrinsic %s not in block %s", extrinsicHash.Hex(), blockHash.Hex())
	}

	records, err := c.events.GetEvents(blockHash)
	if err != nil {
		return nil, err
	}
	events := []Event{}
	for _, record := range records {
		if record.Phase == nil || !record.Phase.IsApplyExtrinsic || record.Phase.AsApplyExtrinsic != index {
			continue
		}
		pallet, name, _ := strings.Cut(record.Name, ".")
		event := Event{Pallet: pallet, Name: name}
		if pallet == "System" && name == "ExtrinsicFailed" {
			event.DispatchError = dispatchErrorFromFields(record.Fields)
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *gsrpcConn) Close() {
	if closer, ok := c.api.Client.(interface{ Close() }); ok {
		closer.Close()
	}
}

func extrinsicIndex(extrinsics []string, hash types.Hash) (uint32, bool) {
	for i, encoded := range extrinsics {
		bz, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
		if err != nil {
			continue
		}
		if types.Hash(blake2b.Sum256(bz)) == hash {
			return uint32(i), true
		}
	}
	return 0, false
}

var dispatchErrorKinds = []string{
	"Other", "CannotLookup", "BadOrigin", "Module", "ConsumerRemaining", "NoProviders",
	"TooManyConsumers", "Token", "Arithmetic", "Transactional", "Exhausted", "Corruption",
	"Unavailable", "RootNotAllowed",
}

// variants of the errors nested in Token, Arithmetic and Transactional
var nestedErrorKinds = map[string][]string{
	"Token": {
		"FundsUnavailable", "OnlyProvider", "BelowMinimum", "CannotCreate", "UnknownAsset",
		"Frozen", "Unsupported", "CannotCreateHold", "NotExpendable", "Blocked",
	},
	"Arithmetic":    {"Underflow", "Overflow", "DivisionByZero"},
	"Transactional": {"LimitReached", "NoLayer"},
}

// dispatchErrorFromFields pulls the dispatch error out of decoded
// ExtrinsicFailed fields. Module errors carry an index and a 4 byte error.
func dispatchErrorFromFields(fields registry.DecodedFields) *DispatchError {
	if len(fields) == 0 {
		return &DispatchError{Kind: "DispatchError"}
	}
	field := fields[0]
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Name), "dispatch_error") || strings.HasSuffix(f.Name, "DispatchError") {
			field = f
			break
		}
	}
	if variant, ok := toUint8(field.Value); ok {
		if int(variant) < len(dispatchErrorKinds) {
			return &DispatchError{Kind: dispatchErrorKinds[variant]}
		}
		return &DispatchError{Kind: fmt.Sprintf("DispatchError(%d)", variant)}
	}
	if module := findModuleError(field.Value); module != nil {
		return &DispatchError{Module: module}
	}
	if kind, ok := nestedKind(field.Value); ok {
		return &DispatchError{Kind: kind}
	}
	return &DispatchError{Kind: "DispatchError"}
}

// nestedKind names a variant that carries a payload, e.g. Token.FundsUnavailable.
// The decoder drops the outer variant byte, so the variant is recovered from
// the name of its single field.
func nestedKind(value any) (string, bool) {
	fields, ok := value.(registry.DecodedFields)
	if !ok || len(fields) == 0 {
		return "", false
	}
	kind, ok := variantName(fields[0].Name)
	if !ok {
		return "", false
	}
	inner, ok := innerVariant(fields[0].Value)
	if !ok {
		return kind, true
	}
	if names := nestedErrorKinds[kind]; int(inner) < len(names) {
		return kind + "." + names[inner], true
	}
	return fmt.Sprintf("%s(%d)", kind, inner), true
}

// variantName accepts a variant name or the path of its payload type,
// e.g. "Token" or "sp_runtime.TokenError".
func variantName(name string) (string, bool) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "Error")
	for _, kind := range dispatchErrorKinds {
		if kind == name {
			return kind, true
		}
	}
	return "", false
}

func innerVariant(value any) (uint8, bool) {
	if v, ok := toUint8(value); ok {
		return v, true
	}
	if fields, ok := value.(registry.DecodedFields); ok && len(fields) == 1 {
		return innerVariant(fields[0].Value)
	}
	return 0, false
}

func findModuleError(value any) *ModuleError {
	fields, ok := value.(registry.DecodedFields)
	if !ok {
		return nil
	}
	var index *uint8
	var code []byte
	for _, f := range fields {
		name := strings.ToLower(f.Name)
		switch {
		case strings.HasSuffix(name, "index"):
			if v, ok := toUint8(f.Value); ok {
				index = &v
			}
		case strings.HasSuffix(name, "error"):
			if v, ok := toBytes(f.Value); ok {
				code = v
			}
		}
	}
	if index != nil && len(code) > 0 {
		module := &ModuleError{Index: *index}
		copy(module.Error[:], code)
		return module
	}
	for _, f := range fields {
		if module := findModuleError(f.Value); module != nil {
			return module
		}
	}
	return nil
}

func toUint8(value any) (uint8, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return 0, false
	}
	if v.Kind() == reflect.Uint8 {
		return uint8(v.Uint()), true
	}
	return 0, false
}

func toBytes(value any) ([]byte, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]byte, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		for elem.Kind() == reflect.Interface && !elem.IsNil() {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Uint8 {
			return nil, false
		}
		out = append(out, uint8(elem.Uint()))
	}
	return out, true
}
