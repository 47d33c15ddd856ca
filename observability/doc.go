// Package observability provides OpenTelemetry tracing and metrics for
// credential operations.
//
// Exporters:
//
//	shutdown, err := observability.Setup(ctx, cfg, observability.ServiceInfo{
//		Name: "cuidar-api", Version: "1.0.0", Environment: "production",
//	})
//	defer shutdown(ctx)
//
// Instruments:
//
//	metrics, err := observability.NewCredentialMetrics(observability.Meter("credkit"))
//	metrics.RecordTokenValidation(ctx, "TOKEN_EXPIRED")
//
// A nil *CredentialMetrics records nothing, so components accept it as an
// optional dependency.
package observability
