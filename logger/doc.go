// Package logger provides structured logging for credkit components
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
// Values logged under password, secret, token or hash keys are replaced
// with Redacted; log a fingerprint instead.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("password")
//	log.Warn("stored hash uses outdated parameters", logger.Fields(logger.FieldAlgorithm, "bcrypt"))
package logger
