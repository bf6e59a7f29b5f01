package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openweb3-io/xcbridge/confirm"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPresets(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "moonbase-alpha", cfg.Source)
	require.Equal(t, "sibling", cfg.Target)
	require.Equal(t, []string{"moonbase-alpha", "sibling"}, cfg.ChainNames())
	require.Equal(t, confirm.DefaultRetryPolicy(), cfg.Retry)
	require.Equal(t, JournalMemory, cfg.Journal.Driver)
	require.Equal(t, ":8080", cfg.Server.Addr)

	sibling, err := cfg.Chain("sibling")
	require.NoError(t, err)
	require.Equal(t, xc.BlockchainSubstrate, sibling.Blockchain)
	require.EqualValues(t, 42, sibling.SS58Prefix)
	require.Len(t, sibling.Assets, 1)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.True(t, xc.IsCode(err, xc.CodeInvalidConfig))
}

func TestLoadMergesFileOverPresets(t *testing.T) {
	path := writeFile(t, "xcbridge.yaml", `
target: local
chains:
  sibling:
    url: ws://127.0.0.1:9944
  local:
    blockchain: Substrate
    url: ws://127.0.0.1:9955
    routing_id: 2000
    native_symbol: UNIT
    decimals: 12
retry:
  max_attempts: 5
  attempt_timeout: 2s
journal:
  driver: redis
  addr: 127.0.0.1:6379
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Target)

	sibling, err := cfg.Chain("sibling")
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:9944", sibling.URL)
	require.EqualValues(t, 50, sibling.PalletInstance)
	require.EqualValues(t, 1001, sibling.RoutingID)

	local, err := cfg.Chain("local")
	require.NoError(t, err)
	require.Equal(t, "local", local.Name)
	require.Equal(t, xc.BlockchainSubstrate, local.Blockchain)
	require.EqualValues(t, 42, local.SS58Prefix)
	require.EqualValues(t, 2000, local.RoutingID)

	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, 2*time.Second, cfg.Retry.AttemptTimeout)
	require.Equal(t, confirm.DefaultTimeoutCost, cfg.Retry.TimeoutCost)
	require.Equal(t, JournalRedis, cfg.Journal.Driver)
	require.Equal(t, "xcbridge:", cfg.Journal.Prefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XCBRIDGE_CHAINS_SIBLING_URL", "ws://10.0.0.2:9944")
	t.Setenv("XCBRIDGE_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("XCBRIDGE_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("EVM_PRIVATE_KEY", "0x01")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)

	sibling, err := cfg.Chain("sibling")
	require.NoError(t, err)
	require.Equal(t, "ws://10.0.0.2:9944", sibling.URL)
	require.Equal(t, 7, cfg.Retry.MaxAttempts)
	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Equal(t, "0x01", cfg.Secrets.EVMPrivateKey)
	require.Equal(t, "hunter2", cfg.Secrets.RedisPassword)
}

func validConfig() *Config {
	return &Config{
		Source: "a",
		Target: "b",
		Chains: map[string]*xc.ChainConfig{
			"a": {Blockchain: xc.BlockchainEVM, URL: "http://a"},
			"b": {Blockchain: xc.BlockchainSubstrate, URL: "ws://b"},
		},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, confirm.DefaultRetryPolicy(), cfg.Retry)
	require.Equal(t, JournalMemory, cfg.Journal.Driver)

	tests := []struct {
		name   string
		mutate func(c *Config)
		code   xc.ErrorCode
	}{
		{"unknown source", func(c *Config) { c.Source = "z" }, xc.CodeUnsupportedChain},
		{"same endpoints", func(c *Config) { c.Target = "A" }, xc.CodeInvalidConfig},
		{"missing target", func(c *Config) { c.Target = "" }, xc.CodeInvalidConfig},
		{"bad blockchain", func(c *Config) { c.Chains["a"].Blockchain = "solana" }, xc.CodeInvalidConfig},
		{"no url", func(c *Config) { c.Chains["b"].URL = "" }, xc.CodeInvalidConfig},
		{"nil chain", func(c *Config) { c.Chains["c"] = nil }, xc.CodeInvalidConfig},
		{"redis without addr", func(c *Config) { c.Journal.Driver = JournalRedis }, xc.CodeInvalidConfig},
		{"unknown journal", func(c *Config) { c.Journal.Driver = "postgres" }, xc.CodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Equal(t, tt.code, xc.CodeOf(err))
		})
	}
}

func TestSignerSecret(t *testing.T) {
	ctx := context.Background()
	t.Setenv("BRIDGE_SEED", "//Alice")

	cfg := validConfig()
	cfg.Signers.Substrate = "env:BRIDGE_SEED"
	cfg.Secrets.EVMPrivateKey = "0xabc"
	cfg.Secrets.Mnemonic = "ignored when a reference is set"

	secret, err := cfg.SignerSecret(ctx, xc.BlockchainSubstrate)
	require.NoError(t, err)
	require.Equal(t, "//Alice", secret)

	secret, err = cfg.SignerSecret(ctx, xc.BlockchainEVM)
	require.NoError(t, err)
	require.Equal(t, "0xabc", secret)

	cfg.Secrets.EVMPrivateKey = ""
	_, err = cfg.SignerSecret(ctx, xc.BlockchainEVM)
	require.Equal(t, xc.CodeSignerUnavailable, xc.CodeOf(err))

	cfg.Signers.Substrate = "env:UNSET_BRIDGE_SEED"
	_, err = cfg.SignerSecret(ctx, xc.BlockchainSubstrate)
	require.Equal(t, xc.CodeSignerUnavailable, xc.CodeOf(err))
}

func TestRedactedYAML(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	cfg.Signers.EVM = "0xdeadbeef"
	cfg.Signers.Substrate = "vault:secret/data/bridge#seed"
	cfg.Journal.Password = "hunter2"
	cfg.Secrets.Mnemonic = "bottom drive obey lake"

	out, err := cfg.YAML()
	require.NoError(t, err)
	text := string(out)
	require.NotContains(t, text, "0xdeadbeef")
	require.NotContains(t, text, "hunter2")
	require.NotContains(t, text, "bottom drive")
	require.Contains(t, text, "vault:secret/data/bridge#seed")
	require.Contains(t, text, "attempt_timeout: 1m0s")

	require.Equal(t, "0xdeadbeef", cfg.Signers.EVM)
}
