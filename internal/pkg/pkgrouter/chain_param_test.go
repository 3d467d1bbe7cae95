package pkgrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestChainOrderSkipsNil(t *testing.T) {
	order := make([]string, 0, 3)

	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("recover"), nil, mw("logging"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/usavchina", nil))

	assert.Equal(t, []string{"recover", "logging", "handler"}, order)
}

func TestGetParam(t *testing.T) {
	params := httprouter.Params{{Key: "name", Value: "USA"}}
	ctx := context.WithValue(context.Background(), httprouter.ParamsKey, params)

	assert.Equal(t, "USA", GetParam(ctx, "name"))
	assert.Empty(t, GetParam(context.Background(), "name"))
}

func TestQueryList(t *testing.T) {
	tests := []struct {
		target string
		want   []string
	}{
		{"/compare?countries=usa,china", []string{"usa", "china"}},
		{"/compare?countries=usa&countries=+india+,", []string{"usa", "india"}},
		{"/compare?countries=,,", nil},
		{"/compare", nil},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.target, nil)
		assert.Equal(t, tt.want, QueryList(r, "countries"), tt.target)
	}
}
