package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), "stdout", "storefront-test", &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("storefront.test").Start(context.Background(), "render-menu")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "render-menu")
	assert.Contains(t, buf.String(), "storefront-test")
}

func TestSetupNoneIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "x", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupRejectsUnknownMode(t *testing.T) {
	_, err := Setup(context.Background(), "jaeger", "x", nil)
	assert.Error(t, err)
}
