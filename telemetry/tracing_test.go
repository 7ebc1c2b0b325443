package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestInitTracingDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := InitTracing("watchnwaitbot", "test")
	if err != nil {
		t.Fatalf("InitTracing() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	shutdown()
	if IsTracingEnabled() {
		t.Error("tracing should be disabled without endpoint")
	}
}

func TestStartSpanNoop(t *testing.T) {
	ctx := WithCorrelation(context.Background(), "corr-1")
	ctx, span := StartSpan(ctx, "test", "probe.twitch", PlatformAttr("twitch"), CreatorAttr("coxy810"))
	defer span.End()

	if ctx == nil {
		t.Fatal("nil context")
	}
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	SetSpanHTTPStatus(span, 503)
	SetSpanSuccess(span)
}

func TestSamplingRatio(t *testing.T) {
	tests := map[string]float64{"": 1, "0.25": 0.25, "abc": 1, "2": 1}
	for in, want := range tests {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", in)
		if got := samplingRatio(); got != want {
			t.Errorf("samplingRatio(%q) = %v, want %v", in, got, want)
		}
	}
}
