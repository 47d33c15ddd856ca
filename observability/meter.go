package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/credkit/logger"
)

// InitMeter installs a global meter provider exporting to the OTLP HTTP
// endpoint of cfg every cfg.MetricInterval. The provider must be shut down
// on exit.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", info.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricHashTotal         = "credential.hash.total"
	MetricVerifyTotal       = "credential.verify.total"
	MetricTokenIssued       = "token.issued.total"
	MetricTokenValidation   = "token.validation.total"
	MetricInputRejected     = "input.rejected.total"
	MetricOperationDuration = "identity.operation.duration"
)

// CredentialMetrics holds the instruments for credential operations.
// All methods are safe to call on a nil receiver, which records nothing.
type CredentialMetrics struct {
	hashTotal         metric.Int64Counter
	verifyTotal       metric.Int64Counter
	tokenIssued       metric.Int64Counter
	tokenValidation   metric.Int64Counter
	inputRejected     metric.Int64Counter
	operationDuration metric.Float64Histogram
}

// NewCredentialMetrics creates metric instruments on the given meter.
func NewCredentialMetrics(meter metric.Meter) (*CredentialMetrics, error) {
	hashTotal, err := meter.Int64Counter(MetricHashTotal,
		metric.WithDescription("Password hashes derived, by algorithm"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricHashTotal, err)
	}

	verifyTotal, err := meter.Int64Counter(MetricVerifyTotal,
		metric.WithDescription("Password verifications, by algorithm and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricVerifyTotal, err)
	}

	tokenIssued, err := meter.Int64Counter(MetricTokenIssued,
		metric.WithDescription("Signed tokens issued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTokenIssued, err)
	}

	tokenValidation, err := meter.Int64Counter(MetricTokenValidation,
		metric.WithDescription("Token validations, by result kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTokenValidation, err)
	}

	inputRejected, err := meter.Int64Counter(MetricInputRejected,
		metric.WithDescription("Rejected inputs, by component and kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInputRejected, err)
	}

	operationDuration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Duration of identity operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricOperationDuration, err)
	}

	return &CredentialMetrics{
		hashTotal:         hashTotal,
		verifyTotal:       verifyTotal,
		tokenIssued:       tokenIssued,
		tokenValidation:   tokenValidation,
		inputRejected:     inputRejected,
		operationDuration: operationDuration,
	}, nil
}

// RecordHash counts a derived password hash.
func (m *CredentialMetrics) RecordHash(ctx context.Context, algorithm string) {
	if m == nil {
		return
	}
	m.hashTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrAlgorithm, algorithm)))
}

// RecordVerify counts a password verification. result is "match",
// "mismatch" or the rejection kind.
func (m *CredentialMetrics) RecordVerify(ctx context.Context, algorithm, result string) {
	if m == nil {
		return
	}
	m.verifyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrAlgorithm, algorithm),
		attribute.String(AttrResult, result),
	))
}

// RecordTokenIssued counts an issued token.
func (m *CredentialMetrics) RecordTokenIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokenIssued.Add(ctx, 1)
}

// RecordTokenValidation counts a validation. result is "valid" or the rejection kind.
func (m *CredentialMetrics) RecordTokenValidation(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.tokenValidation.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrResult, result)))
}

// RecordRejection counts an input rejected by component with the given kind.
func (m *CredentialMetrics) RecordRejection(ctx context.Context, component, kind string) {
	if m == nil {
		return
	}
	m.inputRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrComponent, component),
		attribute.String(AttrErrorKind, kind),
	))
}

// RecordOperation records the duration of an identity operation.
func (m *CredentialMetrics) RecordOperation(ctx context.Context, operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrResult, result),
	))
}
