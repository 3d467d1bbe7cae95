package pkgrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
)

// Handler is the application-style handler used by this router.
//
// It returns a response (a Page, or any value that is JSON encoded) or an error.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Page is a response that renders itself, typically an HTML document.
type Page interface {
	ContentType() string
	Render(w io.Writer) error
}

// Option customizes a Router.
type Option func(*Router)

// WithErrorPrefix sets the text written before the error description in
// plain-text error responses.
func WithErrorPrefix(prefix string) Option {
	return func(r *Router) {
		r.errorPrefix = prefix
	}
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr          *httprouter.Router
	errorPrefix string
	mws         []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(uuid Generator, opts ...Option) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeText(w, "endpoint not found", http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeText(w, "method not allowed", http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr:          hr,
		errorPrefix: "Error",
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(uuid),
			middlewareLogging,
		},
	}

	for _, opt := range opts {
		opt(ro)
	}

	ro.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": "server is running well"}, http.StatusOK)
	}))

	return ro
}

// Use appends middleware to the existing middleware stack.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// Handle registers a raw http.Handler with the router.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, append(r.mws, mws...)...))
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(re.Context(), re)
		if err != nil {
			r.writeError(re.Context(), w, err)
			return
		}
		r.writeResponse(re.Context(), w, resp)
	}), append(r.mws, mws...)...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// writeError answers with a plain-text description of err.
func (r *Router) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var gerr *pkgerror.Error
	if errors.As(err, &gerr) {
		status = gerr.StatusCode()
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "status", status, "error", err)
	} else {
		slog.WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	writeText(w, fmt.Sprintf("%s: %s", r.errorPrefix, describe(err)), status)
}

func (r *Router) writeResponse(ctx context.Context, w http.ResponseWriter, resp any) {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	page, ok := resp.(Page)
	if !ok {
		writeJSON(w, resp, code)
		return
	}

	// Render fully before the status goes out so a failed template never
	// reaches the client as a truncated page.
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		r.writeError(ctx, w, pkgerror.NewServer(fmt.Errorf("render page: %w", err)))
		return
	}

	w.Header().Set("Content-Type", page.ContentType())
	w.WriteHeader(code)
	//nolint:errcheck // client may be gone
	buf.WriteTo(w)
}

// describe prefers the user-facing message and appends the cause when the
// message alone would hide it.
func describe(err error) string {
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) || gerr.Msg() == "" {
		return err.Error()
	}
	if cause := gerr.Unwrap(); cause != nil && cause.Error() != gerr.Msg() {
		return gerr.Msg() + ": " + cause.Error()
	}
	return gerr.Msg()
}

func writeText(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	//nolint:errcheck // client may be gone
	io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
