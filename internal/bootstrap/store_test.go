package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory}}

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.Nil(t, store.Postgres())
	resp, err := store.Records.Query(context.Background(), providers.RecordQuery{})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data)
}

func TestOpenStore_MemoryBadSeed(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory, SeedPath: "/does/not/exist.json"}}

	_, err := OpenStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenStore_Remote(t *testing.T) {
	cfg := &config.Config{
		Store:     config.StoreConfig{Backend: config.StoreBackendRemote},
		RecordAPI: config.RecordAPIConfig{URL: "http://records.internal"},
	}

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, store.Records)
	assert.NotNil(t, store.Applications)
	assert.NoError(t, store.Close())
}
