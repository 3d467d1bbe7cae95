// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and turns
// panics and canceled starts into errors so fan-out callers see every failure.
package pkgroutine
