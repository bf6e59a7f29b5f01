package client

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
)

type errorKey struct {
	pallet uint8
	index  uint8
}

// ErrorRegistry resolves module errors against the pallet error
// variants of runtime metadata.
type ErrorRegistry struct {
	errors map[errorKey]xc.DecodedFailure
}

func NewErrorRegistry(meta *types.Metadata) *ErrorRegistry {
	r := &ErrorRegistry{errors: map[errorKey]xc.DecodedFailure{}}
	if meta == nil || meta.Version != 14 {
		return r
	}
	v14 := meta.AsMetadataV14
	for _, pallet := range v14.Pallets {
		if !pallet.HasErrors {
			continue
		}
		typ := lookupType(&v14, pallet.Errors.Type.Int64())
		if typ == nil || !typ.Def.IsVariant {
			continue
		}
		section := lowerFirst(string(pallet.Name))
		for _, variant := range typ.Def.Variant.Variants {
			docs := make([]string, 0, len(variant.Docs))
			for _, doc := range variant.Docs {
				docs = append(docs, strings.TrimSpace(string(doc)))
			}
			r.errors[errorKey{uint8(pallet.Index), uint8(variant.Index)}] = xc.DecodedFailure{
				Module: section,
				Method: string(variant.Name),
				Docs:   strings.Join(docs, " "),
			}
		}
	}
	return r
}

func lookupType(meta *types.MetadataV14, id int64) *types.Si1Type {
	if typ, ok := meta.EfficientLookup[id]; ok {
		return typ
	}
	for i := range meta.Lookup.Types {
		if meta.Lookup.Types[i].ID.Int64() == id {
			return &meta.Lookup.Types[i].Type
		}
	}
	return nil
}

// Lookup resolves a module error. Unknown errors keep their raw indices.
func (r *ErrorRegistry) Lookup(module ModuleError) xc.DecodedFailure {
	if failure, ok := r.errors[errorKey{module.Index, module.Error[0]}]; ok {
		return failure
	}
	return xc.DecodedFailure{
		Module: fmt.Sprintf("pallet%d", module.Index),
		Method: fmt.Sprintf("Error%d", module.Error[0]),
	}
}

// Decode turns a dispatch error into a failure.
func (r *ErrorRegistry) Decode(dispatchErr *DispatchError) xc.DecodedFailure {
	if dispatchErr == nil {
		return xc.DecodedFailure{Module: "system", Method: "ExtrinsicFailed"}
	}
	if dispatchErr.Module != nil {
		return r.Lookup(*dispatchErr.Module)
	}
	return xc.DecodedFailure{Module: "dispatch", Method: dispatchErr.Kind}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func CheckError(err error) xclient.ClientError {
	if err == nil {
		return xclient.UnknownError
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid transaction: stale"):
		return xclient.TransactionOutdated
	case strings.Contains(msg, "invalid transaction: payment"):
		return xclient.NoBalance
	}
	return xclient.CheckError(err)
}
