package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := f[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "MedCare Repair API", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, "MedCare Solutions", cfg.Company.Name)
	assert.Equal(t, "513353-601", cfg.Company.MofNumber)
	assert.InDelta(t, 89500.0, cfg.Company.DefaultDollarRate, 0.001)
	assert.False(t, cfg.ERP.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_AWSEnvFallback(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIATEST")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "shh")
	t.Setenv("AWS_S3_BUCKET", "scope-docs")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "AKIATEST", cfg.Storage.S3.AccessKeyID)
	assert.Equal(t, "shh", cfg.Storage.S3.SecretAccessKey)
	assert.Equal(t, "scope-docs", cfg.Storage.S3.Bucket)
	assert.Equal(t, "eu-central-1", cfg.Storage.S3.Region)
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "localhost"

	err := ApplySecrets(context.Background(), cfg, fakeSecrets{
		"postgres-password": "pg-secret",
		"jwt-secret":        "signing-key",
		"erp-url":           "erp.local:1433/medcare",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host, "missing secret keeps existing value")
	assert.Equal(t, "pg-secret", cfg.Database.Password)
	assert.Equal(t, "signing-key", cfg.Auth.JWTSecret)
	assert.Equal(t, "erp.local:1433/medcare", cfg.ERP.URL)
}

func TestApplySecrets_RequiresJWTSecret(t *testing.T) {
	err := ApplySecrets(context.Background(), &Config{}, fakeSecrets{})
	assert.Error(t, err)
}

func TestDurations(t *testing.T) {
	auth := AuthConfig{TokenTTL: 90}
	assert.Equal(t, 90*time.Minute, auth.TokenTTLDuration())

	storage := StorageConfig{MaxUploadSizeMB: 2}
	assert.Equal(t, int64(2*1024*1024), storage.MaxUploadBytes())

	jobs := JobsConfig{JobTimeout: 15}
	assert.Equal(t, 15*time.Second, jobs.JobTimeoutDuration())
}
