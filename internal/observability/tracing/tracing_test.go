package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), nil, "rentalregistry", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSamplerRatio(t *testing.T) {
	require.Equal(t, 1.0, samplerRatio(""))
	require.Equal(t, 0.25, samplerRatio("0.25"))
	require.Equal(t, 1.0, samplerRatio("2"))
	require.Equal(t, 1.0, samplerRatio("half"))
}
