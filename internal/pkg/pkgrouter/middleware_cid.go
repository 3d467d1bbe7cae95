package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gocovid/internal/pkg/pkglog"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
	// HeaderCloudTrace is set by Google front ends as "TRACE_ID/SPAN_ID;o=OPTIONS".
	HeaderCloudTrace = "X-Cloud-Trace-Context"

	maxCIDLength = 128
)

func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCIDLength {
		v = v[:maxCIDLength]
	}
	return v
}

// incomingCID picks the first usable id from the request headers, in order of
// preference: our own header, a proxy request id, then the cloud trace id.
func incomingCID(h http.Header) string {
	if cid := normalizeCID(h.Get(HeaderCorrelationID)); cid != "" {
		return cid
	}
	if cid := normalizeCID(h.Get(HeaderRequestID)); cid != "" {
		return cid
	}

	trace, _, _ := strings.Cut(h.Get(HeaderCloudTrace), "/")
	return normalizeCID(trace)
}

func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := incomingCID(r.Header)
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
