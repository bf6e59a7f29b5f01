package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	vault "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
)

const (
	refEnv   = "env:"
	refFile  = "file:"
	refVault = "vault:"
	refGSM   = "gsm:"
)

// SecretSource fetches one kind of secret reference.
type SecretSource func(ctx context.Context, ref string) (string, error)

var sources = map[string]SecretSource{
	refEnv:   envSecret,
	refFile:  fileSecret,
	refVault: vaultSecret,
	refGSM:   gsmSecret,
}

// RegisterSecretSource replaces the resolver for a reference prefix such
// as "vault:".
func RegisterSecretSource(prefix string, source SecretSource) {
	sources[prefix] = source
}

// IsReference reports whether value names a secret instead of holding one.
func IsReference(value string) bool {
	for prefix := range sources {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// Resolve turns a secret reference into its value:
//
//	env:NAME                          environment variable
//	file:/path                        file contents, trailing newline trimmed
//	vault:secret/data/bridge#key      HashiCorp Vault, KV v1 or v2
//	gsm:projects/p/secrets/s/versions/1  Google Secret Manager
//
// Anything else is returned as is.
func Resolve(ctx context.Context, ref string) (string, error) {
	for prefix, source := range sources {
		if strings.HasPrefix(ref, prefix) {
			return source(ctx, strings.TrimPrefix(ref, prefix))
		}
	}
	return ref, nil
}

func envSecret(ctx context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}

func fileSecret(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read secret file")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func vaultSecret(ctx context.Context, ref string) (string, error) {
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("vault reference %q must be path#key", ref)
	}
	client, err := vault.NewClient(vault.DefaultConfig())
	if err != nil {
		return "", errors.Wrap(err, "vault client")
	}
	secret, err := client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", errors.Wrapf(err, "vault read %s", path)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s not found", path)
	}
	return vaultField(secret.Data, key)
}

// vaultField reads key from a KV v1 payload or the data map of a KV v2 one.
func vaultField(data map[string]interface{}, key string) (string, error) {
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault secret has no string field %q", key)
	}
	return value, nil
}

func gsmSecret(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.Wrap(err, "secret manager client")
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.Wrapf(err, "access %s", name)
	}
	return string(resp.GetPayload().GetData()), nil
}
