package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocovid/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Index(ctx context.Context, r *http.Request) (any, error) {
	return indexPage(h.uc.Routes()), nil
}

func (h *HTTPEndpoint) USAvChina(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.USAvChina(ctx)
	if err != nil {
		return nil, err
	}

	return comparePage(result), nil
}

func (h *HTTPEndpoint) Country(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Country(ctx, pkgrouter.GetParam(ctx, "name"))
	if err != nil {
		return nil, err
	}

	return countryPage(result), nil
}

func (h *HTTPEndpoint) Compare(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Compare(ctx, pkgrouter.QueryList(r, "countries"))
	if err != nil {
		return nil, err
	}

	return comparePage(result), nil
}
