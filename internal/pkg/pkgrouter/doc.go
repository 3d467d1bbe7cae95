// Package pkgrouter wraps HTTP routing and common middleware used by the web
// front end.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like page rendering, plain-text error mapping, logging, recovery, and
// correlation ID propagation.
package pkgrouter
