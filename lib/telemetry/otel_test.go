package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	host, insecure, err := parseEndpoint("https://example.com:4318")
	require.NoError(t, err)
	require.Equal(t, "example.com:4318", host)
	require.False(t, insecure)

	host, insecure, err = parseEndpoint("http://localhost:4318")
	require.NoError(t, err)
	require.Equal(t, "localhost:4318", host)
	require.True(t, insecure)
}

func TestInitNoEndpointUsesNoop(t *testing.T) {
	provider, shutdown, err := Init(context.Background(), Config{})
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitInvalidEndpoint(t *testing.T) {
	_, _, err := Init(context.Background(), Config{OTLPEndpoint: "://bad"})
	require.Error(t, err)
}

func TestInitWithEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	provider, shutdown, err := Init(context.Background(), Config{OTLPEndpoint: srv.URL, ServiceName: "churn"})
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NoError(t, shutdown(context.Background()))
}
