package chains

import (
	_ "embed"
	"sort"

	xc "github.com/openweb3-io/xcbridge/types"
	"gopkg.in/yaml.v3"
)

type presetFile struct {
	Network string                     `yaml:"network"`
	Chains  map[string]*xc.ChainConfig `yaml:"chains"`
}

func init() {
	testcfg := unmarshal(testnetData)

	Testnet = testcfg.Chains
	for name, chain := range Testnet {
		if chain.Name == "" {
			chain.Name = name
		}
		if chain.ConfirmationsFinal == 0 {
			chain.ConfirmationsFinal = 2
		}
	}
}

func unmarshal(data string) *presetFile {
	cfg := &presetFile{}
	if err := yaml.Unmarshal([]byte(data), cfg); err != nil {
		panic(err)
	}
	return cfg
}

//go:embed testnet.yaml
var testnetData string

var Testnet map[string]*xc.ChainConfig

// Raw returns the embedded preset document.
func Raw() []byte {
	return []byte(testnetData)
}

// Lookup returns a copy of the named preset so callers may override fields.
func Lookup(name string) (*xc.ChainConfig, bool) {
	chain, ok := Testnet[name]
	if !ok {
		return nil, false
	}
	return Copy(chain), true
}

// Names lists the presets in name order.
func Names() []string {
	names := make([]string, 0, len(Testnet))
	for name := range Testnet {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy clones cfg including its asset list.
func Copy(cfg *xc.ChainConfig) *xc.ChainConfig {
	out := *cfg
	out.Assets = make([]*xc.Asset, 0, len(cfg.Assets))
	for _, asset := range cfg.Assets {
		a := *asset
		out.Assets = append(out.Assets, &a)
	}
	return &out
}
