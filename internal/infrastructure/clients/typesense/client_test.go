package typesense

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

func TestProviderSchema(t *testing.T) {
	schema := ProviderSchema()

	assert.Equal(t, ProvidersCollection, schema.Name)
	require.NotNil(t, schema.DefaultSortingField)
	assert.Equal(t, "rating", *schema.DefaultSortingField)

	types := map[string]string{}
	for _, f := range schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "string[]", types["specialty"])
	assert.Equal(t, "string[]", types["insurance"])
	assert.Equal(t, "float", types["rating"])
}

func TestClient_Integration(t *testing.T) {
	url := os.Getenv("TYPESENSE_TEST_URL")
	if url == "" {
		t.Skip("TYPESENSE_TEST_URL not set")
	}

	client, err := NewClient(context.Background(), &config.TypesenseConfig{
		URL:    url,
		APIKey: os.Getenv("TYPESENSE_TEST_API_KEY"),
	})
	require.NoError(t, err)
	assert.NoError(t, client.InitSchema(context.Background()))
}
