package main

import (
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/memory"
)

func TestGenerateProviders(t *testing.T) {
	providers := generateProviders(gofakeit.New(42), 25)

	require.Len(t, providers, 25)
	for _, p := range providers {
		assert.Zero(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Specialty)
		assert.NotNil(t, p.Insurance)
		assert.GreaterOrEqual(t, p.Rating, 3.5)
		assert.LessOrEqual(t, p.Rating, 5.0)
	}
}

func TestGenerateProviders_Deterministic(t *testing.T) {
	a := generateProviders(gofakeit.New(7), 5)
	b := generateProviders(gofakeit.New(7), 5)

	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Specialty, b[i].Specialty)
	}
}

func TestWriteCatalogue_LoadsAsSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.json")
	require.NoError(t, writeCatalogue(path, generateProviders(gofakeit.New(1), 4)))

	recs, err := memory.LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i, rec := range recs {
		assert.Equal(t, int64(i+1), rec.ID)
		assert.False(t, rec.Specialty.IsZero())
	}
}
