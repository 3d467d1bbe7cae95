package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/gocovid/internal/pkg/pkglog"
	"github.com/stretchr/testify/assert"
)

type staticGenerator struct {
	value string
	calls int
}

func (g *staticGenerator) Generate() string {
	g.calls++
	return g.value
}

func TestMiddlewareCorrelationID(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		want      string
		generated bool
	}{
		{
			name:    "correlation header",
			headers: map[string]string{HeaderCorrelationID: "header-cid", HeaderRequestID: "request-id"},
			want:    "header-cid",
		},
		{
			name:    "request id fallback",
			headers: map[string]string{HeaderRequestID: " request-id "},
			want:    "request-id",
		},
		{
			name:    "cloud trace fallback",
			headers: map[string]string{HeaderCloudTrace: "105445aa7843bc8bf206b12000100000/1;o=1"},
			want:    "105445aa7843bc8bf206b12000100000",
		},
		{
			name:      "generated when missing",
			want:      "generated",
			generated: true,
		},
		{
			name:      "header with newline is ignored",
			headers:   map[string]string{HeaderRequestID: "bad\nid"},
			want:      "generated",
			generated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &staticGenerator{value: "generated"}

			var gotCID string
			wrapped := middlewareCorrelationID(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCID = pkglog.GetCorrelationID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/country/usa", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Header().Get(HeaderCorrelationID))
			assert.Equal(t, tt.want, gotCID)
			assert.Equal(t, tt.generated, gen.calls == 1, "generator calls: %d", gen.calls)
		})
	}
}

