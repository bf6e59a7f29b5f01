package builder

import (
	xc "github.com/openweb3-io/xcbridge/types"
)

// All possible builder arguments go in here, privately available.
// Then the public BridgeArgs can select which arguments are needed.
type builderOptions struct {
	feeAsset            *xc.AssetAmount
	sourceChain         *string
	targetChain         *string
	waitForFinalization *bool
}

func get[T any](arg *T) (T, bool) {
	if arg == nil {
		var zero T
		return zero, false
	}
	return *arg, true
}

func (opts *builderOptions) GetFeeAsset() (xc.AssetAmount, bool) { return get(opts.feeAsset) }
func (opts *builderOptions) GetSourceChain() (string, bool)     { return get(opts.sourceChain) }
func (opts *builderOptions) GetTargetChain() (string, bool)     { return get(opts.targetChain) }
func (opts *builderOptions) GetWaitForFinalization() (bool, bool) {
	return get(opts.waitForFinalization)
}

type BuilderOption func(opts *builderOptions) error

// WithFeeAsset pays the bridge fee in a separate asset, placed first in the
// currency list.
func WithFeeAsset(fee xc.AssetAmount) BuilderOption {
	return func(opts *builderOptions) error {
		if fee.Asset == nil {
			return xc.Errorf(xc.ErrInvalidAmount, "fee asset not set")
		}
		opts.feeAsset = &fee
		return nil
	}
}

func WithChains(source, target string) BuilderOption {
	return func(opts *builderOptions) error {
		opts.sourceChain = &source
		opts.targetChain = &target
		return nil
	}
}

// WithInBlockConfirmation accepts in-block inclusion without waiting for finality.
func WithInBlockConfirmation() BuilderOption {
	return func(opts *builderOptions) error {
		wait := false
		opts.waitForFinalization = &wait
		return nil
	}
}

func WithWaitForFinalization(wait bool) BuilderOption {
	return func(opts *builderOptions) error {
		opts.waitForFinalization = &wait
		return nil
	}
}
