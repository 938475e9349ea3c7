package service_test

import (
	"context"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_DefaultsThenUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	defaults, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MedCare Solutions", defaults.CompanyName)
	assert.Equal(t, "MOF-1", defaults.MofNumber)
	assert.InDelta(t, float64(domain.DefaultDollarRate), defaults.DollarRate, 0.001)
	assert.InDelta(t, float64(domain.DefaultDollarRate), env.settings.DollarRate(ctx), 0.001)

	updated, err := env.settings.Update(ctx, &domain.UpdateSettingsRequest{
		CompanyName:  "MedCare SARL",
		CompanyPhone: "+961 1 111 111",
		CompanyEmail: "office@medcare.example",
		MofNumber:    "MOF-77",
		DollarRate:   91500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, updated.UpdatedAt)

	stored, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MedCare SARL", stored.CompanyName)
	assert.Equal(t, "MOF-77", stored.MofNumber)
	assert.InDelta(t, 91500, env.settings.DollarRate(ctx), 0.001)

	// saving twice keeps a single row
	_, err = env.settings.Update(ctx, &domain.UpdateSettingsRequest{
		CompanyName:  "MedCare SARL",
		CompanyPhone: "+961 1 111 111",
		CompanyEmail: "office@medcare.example",
		MofNumber:    "MOF-78",
		DollarRate:   92000,
	})
	require.NoError(t, err)
	var rows int64
	require.NoError(t, env.db.Model(&domain.Settings{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
