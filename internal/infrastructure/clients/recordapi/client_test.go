package recordapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newClient(server.URL+"/", server.Client(), time.Minute)
}

func TestClient_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/records/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var query providers.RecordQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, providers.FieldRating, query.OrderBy)
		require.Len(t, query.Filters, 1)

		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Dr. Sarah Chen","specialty":"Functional Medicine,Acupuncture","rating":4.9}]}`))
	})

	resp, err := client.Query(context.Background(), providers.RecordQuery{
		Filters: []providers.FieldFilter{{Fields: []string{providers.FieldSpecialty}, Operator: providers.OperatorContains, Values: []string{"acu"}}},
		OrderBy: providers.FieldRating,
	})

	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Functional Medicine,Acupuncture", resp.Data[0].Specialty.String())
}

func TestClient_ToleratesAbsentData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	resp, err := client.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Data)
}

func TestClient_NotFoundIsAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/records/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	resp, err := client.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Data)
}

func TestClient_ClientErrorIsUnsuccessfulResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"name is required"}`))
	})

	resp, err := client.Create(context.Background(), &entities.ProviderRecord{})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "name is required", resp.Message)
}

func TestClient_ServerErrorTripsBreaker(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()

	for i := 0; i < consecutiveFailures; i++ {
		_, err := client.Update(ctx, 1, &entities.ProviderRecord{Name: "x"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := client.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(consecutiveFailures), calls.Load())
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient(&config.RecordAPIConfig{URL: "http://records.local/"})
	assert.Equal(t, "http://records.local", client.baseURL)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
}
