package secrets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore map[string]string

func (s stubStore) GetSecret(_ context.Context, name string) (string, error) {
	return s[name], nil
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestEnvironmentProvider(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	p := NewEnvironmentProvider(zap.NewNop())

	v, err := p.GetSecretOrEnv(context.Background(), "jwt-secret", "JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	_, err = p.GetSecretOrEnv(context.Background(), "erp-password", "ERP_PASSWORD_UNSET_FOR_TEST")
	assert.Error(t, err)
}

func TestVaultSourcePrefersEnvOverride(t *testing.T) {
	p := &Provider{source: SourceVault, remote: stubStore{"admin-api-key": "vault-key"}, logger: zap.NewNop()}

	v, err := p.GetSecretOrEnv(context.Background(), "admin-api-key", "ADMIN_API_KEY_TEST_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "vault-key", v)

	t.Setenv("ADMIN_API_KEY_TEST_OVERRIDE", "env-key")
	v, err = p.GetSecretOrEnv(context.Background(), "admin-api-key", "ADMIN_API_KEY_TEST_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "env-key", v)
	assert.True(t, p.IsVaultEnabled())
}

func TestTTLCache(t *testing.T) {
	c := newTTLCache(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	c.put("db", "pw", now)
	v, ok := c.get("db", now.Add(30*time.Second))
	assert.True(t, ok)
	assert.Equal(t, "pw", v)

	_, ok = c.get("db", now.Add(2*time.Minute))
	assert.False(t, ok, "expired entries are evicted")
}
