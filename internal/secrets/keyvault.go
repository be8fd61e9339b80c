// Package secrets resolves the database connection descriptor and the
// application signing key from Azure Key Vault. Resolution happens exactly
// once at process startup; the resulting Bundle is immutable and passed by
// value into the components that need it.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/rs/zerolog/log"
)

// Names of the five secrets, appended to the configured prefix.
const (
	nameDBHost     = "DBHOSTNAME"
	nameDBUser     = "DBUSERNAME"
	nameDBPassword = "DBPASSWORD"
	nameDBName     = "DBNAME"
	nameSigningKey = "SECRET-KEY"
)

// Bundle is the immutable set of secrets the application needs: the four
// database connection fields plus the signing key. It is populated once at
// startup and never mutated afterwards.
type Bundle struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	SigningKey string
}

// Validate reports the first missing field, if any.
func (b Bundle) Validate() error {
	for _, f := range []struct{ name, val string }{
		{nameDBHost, b.DBHost},
		{nameDBUser, b.DBUser},
		{nameDBPassword, b.DBPassword},
		{nameDBName, b.DBName},
		{nameSigningKey, b.SigningKey},
	} {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("secret %s is empty", f.name)
		}
	}
	return nil
}

// Provider resolves the secret Bundle. The Key Vault implementation is the
// production provider; tests substitute a static one.
type Provider interface {
	Resolve(ctx context.Context) (Bundle, error)
}

// KeyVault resolves secrets from an Azure Key Vault using the default
// credential chain (environment, workload identity, managed identity, CLI).
type KeyVault struct {
	client *azsecrets.Client
	prefix string
}

// NewKeyVault builds a Key Vault provider for vaultURL. The prefix is
// prepended to each of the five secret names (e.g. "HW13-").
func NewKeyVault(vaultURL, prefix string) (*KeyVault, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("key vault credential: %w", err)
	}
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("key vault client: %w", err)
	}
	return &KeyVault{client: client, prefix: prefix}, nil
}

// Resolve fetches all five secrets (latest versions) and validates that none
// is empty. It is called once at startup; any failure is fatal to the caller.
func (kv *KeyVault) Resolve(ctx context.Context) (Bundle, error) {
	log.Info().Str("prefix", kv.prefix).Msg("loading secrets from key vault")

	var b Bundle
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{nameDBHost, &b.DBHost},
		{nameDBUser, &b.DBUser},
		{nameDBPassword, &b.DBPassword},
		{nameDBName, &b.DBName},
		{nameSigningKey, &b.SigningKey},
	} {
		full := kv.prefix + f.name
		resp, err := kv.client.GetSecret(ctx, full, "", nil)
		if err != nil {
			return Bundle{}, fmt.Errorf("get secret %s: %w", full, err)
		}
		if resp.Value != nil {
			*f.dst = *resp.Value
		}
	}

	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	log.Info().Msg("secrets resolved")
	return b, nil
}

// Static is a Provider that returns a fixed Bundle. Useful for tests and
// local development without a vault.
type Static struct {
	Bundle Bundle
}

// Resolve returns the fixed Bundle after validation.
func (s Static) Resolve(context.Context) (Bundle, error) {
	if err := s.Bundle.Validate(); err != nil {
		return Bundle{}, err
	}
	return s.Bundle, nil
}
