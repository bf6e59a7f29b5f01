// Package config loads bridge settings from YAML, the environment and
// secret stores.
package config

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/address"
	"github.com/openweb3-io/xcbridge/confirm"
	"github.com/openweb3-io/xcbridge/factory/defaults/chains"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "xcbridge.yaml"
	EnvPrefix        = "XCBRIDGE"
	JournalMemory    = "memory"
	JournalRedis     = "redis"
	JournalDisabled  = "none"
	defaultRedisKeys = "xcbridge:"
)

type Config struct {
	Source string `yaml:"source" mapstructure:"source"`
	Target string `yaml:"target" mapstructure:"target"`
	// Keyed by chain name. Presets are merged underneath.
	Chains  map[string]*xc.ChainConfig `yaml:"chains" mapstructure:"chains"`
	Retry   confirm.RetryPolicy        `yaml:"retry" mapstructure:"retry"`
	Journal JournalConfig              `yaml:"journal" mapstructure:"journal"`
	Server  ServerConfig               `yaml:"server" mapstructure:"server"`
	Signers SignerConfig               `yaml:"signers" mapstructure:"signers"`

	Secrets Secrets `yaml:"-" mapstructure:"-"`
}

type JournalConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Addr   string `yaml:"addr,omitempty" mapstructure:"addr"`
	// Secret reference; REDIS_PASSWORD is used when empty.
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
	Prefix   string `yaml:"prefix,omitempty" mapstructure:"prefix"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// SignerConfig holds secret references for the signing keys.
type SignerConfig struct {
	EVM       string `yaml:"evm,omitempty" mapstructure:"evm"`
	Substrate string `yaml:"substrate,omitempty" mapstructure:"substrate"`
}

// Secrets are read from the process environment only.
type Secrets struct {
	SubstrateSecret string `envconfig:"SUBSTRATE_SECRET"`
	Mnemonic        string `envconfig:"MNEMONIC"`
	EVMPrivateKey   string `envconfig:"EVM_PRIVATE_KEY"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
}

func setDefaults(v *viper.Viper) {
	policy := confirm.DefaultRetryPolicy()
	v.SetDefault("source", "moonbase-alpha")
	v.SetDefault("target", "sibling")
	v.SetDefault("retry.max_attempts", policy.MaxAttempts)
	v.SetDefault("retry.timeout_cost", policy.TimeoutCost)
	v.SetDefault("retry.attempt_timeout", policy.AttemptTimeout)
	v.SetDefault("retry.priority_backoff", policy.PriorityBackoff)
	v.SetDefault("retry.max_elapsed", 0)
	v.SetDefault("journal.driver", JournalMemory)
	v.SetDefault("journal.prefix", defaultRedisKeys)
	v.SetDefault("server.addr", ":8080")
}

// Load reads .env files, the chain presets, the YAML file at path and
// XCBRIDGE_* overrides, in increasing precedence. An empty path means
// DefaultPath, which may be absent.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, errors.Wrap(err, "load env file"))
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewReader(chains.Raw())); err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, errors.Wrap(err, "read chain presets"))
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, xc.WrapErr(xc.ErrInvalidConfig, errors.Wrapf(err, "read %s", path))
		}
	} else if explicit {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, errors.Wrap(err, "decode config"))
	}
	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidConfig, errors.Wrap(err, "process env secrets"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the selected endpoints and fills defaults.
func (c *Config) Validate() error {
	for name, chain := range c.Chains {
		if chain == nil {
			return xc.Errorf(xc.ErrInvalidConfig, "chain %q is empty", name)
		}
		if chain.Name == "" {
			chain.Name = name
		}
		kind, ok := xc.ParseBlockchain(string(chain.Blockchain))
		if !ok {
			return xc.Errorf(xc.ErrInvalidConfig, "chain %q has unsupported blockchain %q", name, chain.Blockchain)
		}
		chain.Blockchain = kind
		if kind == xc.BlockchainSubstrate && chain.SS58Prefix == 0 {
			chain.SS58Prefix = address.DefaultPrefix
		}
		if chain.ConfirmationsFinal == 0 {
			chain.ConfirmationsFinal = 2
		}
	}

	if c.Source == "" || c.Target == "" {
		return xc.Errorf(xc.ErrInvalidConfig, "source and target chains are required")
	}
	if strings.EqualFold(c.Source, c.Target) {
		return xc.Errorf(xc.ErrInvalidConfig, "source and target are both %q", c.Source)
	}
	for _, name := range []string{c.Source, c.Target} {
		chain, err := c.Chain(name)
		if err != nil {
			return err
		}
		if chain.URL == "" {
			return xc.Errorf(xc.ErrInvalidConfig, "chain %q has no url", name)
		}
	}

	c.Retry = c.Retry.WithDefaults()

	switch c.Journal.Driver {
	case "":
		c.Journal.Driver = JournalMemory
	case JournalMemory, JournalDisabled:
	case JournalRedis:
		if c.Journal.Addr == "" {
			return xc.Errorf(xc.ErrInvalidConfig, "journal.addr is required for the redis journal")
		}
	default:
		return xc.Errorf(xc.ErrInvalidConfig, "unknown journal driver %q", c.Journal.Driver)
	}
	return nil
}

// Chain looks a chain up by name, ignoring case.
func (c *Config) Chain(name string) (*xc.ChainConfig, error) {
	if chain, ok := c.Chains[name]; ok {
		return chain, nil
	}
	for key, chain := range c.Chains {
		if strings.EqualFold(key, name) || strings.EqualFold(chain.Name, name) {
			return chain, nil
		}
	}
	return nil, xc.Errorf(xc.ErrUnsupportedChain, "unknown chain %q", name)
}

// ChainNames lists the configured chains in name order.
func (c *Config) ChainNames() []string {
	names := make([]string, 0, len(c.Chains))
	for name := range c.Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignerRef returns the configured key reference for chains of the given
// kind, or "" when none is set.
func (c *Config) SignerRef(kind xc.Blockchain) string {
	switch kind {
	case xc.BlockchainEVM:
		return firstNonEmpty(c.Signers.EVM, c.Secrets.EVMPrivateKey)
	case xc.BlockchainSubstrate:
		return firstNonEmpty(c.Signers.Substrate, c.Secrets.SubstrateSecret, c.Secrets.Mnemonic)
	}
	return ""
}

// SignerSecret resolves the key material for chains of the given kind.
func (c *Config) SignerSecret(ctx context.Context, kind xc.Blockchain) (string, error) {
	ref := c.SignerRef(kind)
	if ref == "" {
		return "", xc.Errorf(xc.ErrSignerUnavailable, "no %s signing key configured", kind)
	}
	secret, err := Resolve(ctx, ref)
	if err != nil {
		return "", xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	return secret, nil
}

// JournalPassword resolves the redis password.
func (c *Config) JournalPassword(ctx context.Context) (string, error) {
	ref := firstNonEmpty(c.Journal.Password, c.Secrets.RedisPassword)
	if ref == "" {
		return "", nil
	}
	secret, err := Resolve(ctx, ref)
	if err != nil {
		return "", xc.WrapErr(xc.ErrInvalidConfig, err)
	}
	return secret, nil
}

// Redacted copies the config with literal secrets masked. References are
// kept since they name a location, not a value.
func (c *Config) Redacted() *Config {
	out := *c
	out.Signers.EVM = redact(c.Signers.EVM)
	out.Signers.Substrate = redact(c.Signers.Substrate)
	out.Journal.Password = redact(c.Journal.Password)
	out.Secrets = Secrets{}
	return &out
}

// YAML renders the redacted config.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

func redact(value string) string {
	if value == "" || IsReference(value) {
		return value
	}
	return "********"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
