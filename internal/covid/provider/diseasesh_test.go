package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usaBody = `{"updated":1700000000000,"country":"USA","cases":111820082,"deaths":1219487,` +
	`"recovered":109814428,"active":786167,"critical":940}`

func newServer(t *testing.T, h http.HandlerFunc) *DiseaseSH {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewDiseaseSH(Options{BaseURL: srv.URL, Timeout: time.Second})
}

func TestGetCountry_Success(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/countries/usa", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, usaBody)
	})

	stat, err := client.GetCountry(context.Background(), "USA")

	require.NoError(t, err)
	assert.Equal(t, "USA", stat.Country)
	assert.Equal(t, int64(111820082), stat.Confirmed)
	assert.Equal(t, int64(1219487), stat.Deaths)
	assert.Equal(t, int64(109814428), stat.Recovered)
	assert.Equal(t, int64(786167), stat.Active)
	assert.Equal(t, int64(940), stat.Critical)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), stat.UpdatedAt)
}

func TestGetCountry_CaseInsensitive(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, usaBody)
	})

	upper, err := client.GetCountry(context.Background(), "USA")
	require.NoError(t, err)
	lower, err := client.GetCountry(context.Background(), "  usa ")
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/v3/covid-19/countries/usa", "/v3/covid-19/countries/usa"}, paths)
}

func TestGetCountry_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Country not found or doesn't have any cases"}`)
	})

	_, err := client.GetCountry(context.Background(), "Atlantis")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeNotFound, pkgerror.CodeOf(err))
	assert.Contains(t, err.Error(), "Country not found or doesn't have any cases")
}

func TestGetCountry_EmptyName(t *testing.T) {
	client := NewDiseaseSH(Options{BaseURL: "http://127.0.0.1:1"})

	_, err := client.GetCountry(context.Background(), "   ")

	assert.Equal(t, pkgerror.CodeNotFound, pkgerror.CodeOf(err))
}

func TestGetCountry_ServerError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetCountry(context.Background(), "usa")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestGetCountry_InvalidJSON(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"country": "USA"`)
	})

	_, err := client.GetCountry(context.Background(), "usa")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
}

func TestGetCountry_EmptyRecord(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})

	_, err := client.GetCountry(context.Background(), "usa")

	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
}

func TestGetCountry_ContextTimeout(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, usaBody)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetCountry(ctx, "usa")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeTimeout, pkgerror.CodeOf(err))
}

func TestGetCountry_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewDiseaseSH(Options{BaseURL: url, Timeout: time.Second}).GetCountry(context.Background(), "usa")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "usa", Normalize(" USA "))
	assert.Equal(t, "south korea", Normalize("South Korea"))
}
