package erp

import (
	"context"
	"net/url"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildConnectionString(t *testing.T) {
	t.Run("host port and database", func(t *testing.T) {
		cs := BuildConnectionString(&config.ERPConfig{URL: "erp.local:1444/Accounting", User: "reader", Password: "p@ss"})
		u, err := url.Parse(cs)
		require.NoError(t, err)

		assert.Equal(t, "sqlserver", u.Scheme)
		assert.Equal(t, "erp.local:1444", u.Host)
		assert.Equal(t, "reader", u.User.Username())
		pw, _ := u.User.Password()
		assert.Equal(t, "p@ss", pw)
		assert.Equal(t, "Accounting", u.Query().Get("database"))
		assert.Equal(t, "ReadOnly", u.Query().Get("ApplicationIntent"))
	})

	t.Run("default port", func(t *testing.T) {
		u, err := url.Parse(BuildConnectionString(&config.ERPConfig{URL: "erp.local", User: "u", Password: "p"}))
		require.NoError(t, err)
		assert.Equal(t, "erp.local:1433", u.Host)
		assert.Empty(t, u.Query().Get("database"))
	})
}

func TestNewClient_Disabled(t *testing.T) {
	c, err := NewClient(context.Background(), &config.ERPConfig{Enabled: false}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewClient(context.Background(), &config.ERPConfig{Enabled: true, URL: "erp.local"}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.GetCompanies(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, c.Close())
	assert.Equal(t, "disabled", c.HealthCheck(context.Background()).Status)
}
