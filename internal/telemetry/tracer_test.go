package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupInstallsGlobalProviderAndPropagators(t *testing.T) {
	shutdown, err := Setup(context.Background(), "test-service")
	require.NoError(t, err, "setup must succeed without a running collector")
	require.NotNil(t, shutdown)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")

	// flush with an already-cancelled context; only the call itself matters
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "jaeger:4317", stripScheme("http://jaeger:4317"))
	assert.Equal(t, "jaeger:4317", stripScheme("https://jaeger:4317"))
	assert.Equal(t, "localhost:4317", stripScheme("localhost:4317"))
}
