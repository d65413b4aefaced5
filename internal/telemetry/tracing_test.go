package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracing_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := InitTracing(logrus.New(), true, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "place-order")
	span.End()

	require.NoError(t, Shutdown(context.Background(), tp))
	assert.Contains(t, buf.String(), "place-order")
}

func TestShutdown_Nil(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background(), nil))
}
