// Package pkglog configures the process-wide slog logger.
//
// Records are JSON with ts/severity/file keys and carry the service name plus
// the correlation ID of the request that produced them.
package pkglog
