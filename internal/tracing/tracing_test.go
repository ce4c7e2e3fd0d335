package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/0x5457/textsim/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewInstallsProvider(t *testing.T) {
	ctx := context.Background()
	tracer, err := tracing.New(ctx, tracing.Config{ServiceName: "textsim"})
	require.NoError(t, err)
	defer func() { require.NoError(t, tracer.Shutdown(ctx)) }()

	_, span := otel.Tracer("test").Start(ctx, "compute")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "inference")
	tracing.RecordError(span, errors.New("backend down"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "backend down", spans[0].Status().Description)
}
