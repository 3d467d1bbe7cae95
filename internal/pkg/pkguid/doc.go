// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the StringID interface so tests can pin the value; the
// default generator produces time-ordered UUIDv7 strings used as request
// correlation IDs.
package pkguid
