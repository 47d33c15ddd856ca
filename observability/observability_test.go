package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/credkit/observability/obstest"
)

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample_rate > 1")
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, ServiceInfo{Name: "svc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestNewCredentialMetrics_Noop(t *testing.T) {
	metrics, err := NewCredentialMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordHash(ctx, "argon2id")
	metrics.RecordVerify(ctx, "argon2id", "match")
	metrics.RecordTokenIssued(ctx)
	metrics.RecordTokenValidation(ctx, "valid")
	metrics.RecordRejection(ctx, "sanitize", "TOO_LONG")
	metrics.RecordOperation(ctx, "login", "ok", 10*time.Millisecond)
}

func TestCredentialMetrics_NilReceiver(t *testing.T) {
	var metrics *CredentialMetrics
	ctx := context.Background()
	// must not panic
	metrics.RecordHash(ctx, "argon2id")
	metrics.RecordVerify(ctx, "bcrypt", "mismatch")
	metrics.RecordTokenIssued(ctx)
	metrics.RecordTokenValidation(ctx, "BAD_SIGNATURE")
	metrics.RecordRejection(ctx, "cpf", "WRONG_LENGTH")
	metrics.RecordOperation(ctx, "register", "error", time.Second)
}

func TestCredentialMetrics_RecordsKinds(t *testing.T) {
	reader, mp := obstest.NewReader(t)

	metrics, err := NewCredentialMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	metrics.RecordTokenValidation(ctx, "valid")
	metrics.RecordTokenValidation(ctx, "TOKEN_EXPIRED")
	metrics.RecordTokenValidation(ctx, "TOKEN_EXPIRED")

	got := obstest.CounterValues(t, reader, MetricTokenValidation, AttrResult)
	if got["valid"] != 1 {
		t.Errorf("expected 1 valid, got %d", got["valid"])
	}
	if got["TOKEN_EXPIRED"] != 2 {
		t.Errorf("expected 2 TOKEN_EXPIRED, got %d", got["TOKEN_EXPIRED"])
	}
}

func TestStartSpanAndSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), SpanValidateToken)
	SetSpanAttribute(ctx, AttrUserID, int64(7))
	SetSpanError(ctx, "BAD_SIGNATURE", fmt.Errorf("signature mismatch"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name != SpanValidateToken {
		t.Errorf("expected span %q, got %q", SpanValidateToken, s.Name)
	}
	if s.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status.Code)
	}
	var kind string
	for _, a := range s.Attributes {
		if a.Key == attribute.Key(AttrErrorKind) {
			kind = a.Value.AsString()
		}
	}
	if kind != "BAD_SIGNATURE" {
		t.Errorf("expected error.kind BAD_SIGNATURE, got %q", kind)
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	// With background context (no recording span), should not panic
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, "KIND", fmt.Errorf("no span error"))
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected non-nil span (noop)")
	}
}

func TestInitTracerAndMeter(t *testing.T) {
	cfg := Config{Insecure: true, MetricInterval: time.Hour}
	cfg.ApplyDefaults()
	info := ServiceInfo{Name: "test", Version: "1.0.0", Environment: "test"}

	tp, err := InitTracer(context.Background(), cfg, info)
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	defer tp.Shutdown(context.Background())

	mp, err := InitMeter(context.Background(), cfg, info)
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}
