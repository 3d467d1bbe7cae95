package inbound

import (
	"context"

	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/covid/usecase"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgrouter"
)

type uc interface {
	Country(ctx context.Context, name string) (usecase.CountryResult, error)
	Compare(ctx context.Context, names []string) (usecase.CompareResult, error)
	USAvChina(ctx context.Context) (usecase.CompareResult, error)
	Routes() []entity.Route
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/", end.Index)
	r.GET("/usavchina", end.USAvChina)
	r.GET("/country/:name", end.Country)
	r.GET("/compare", end.Compare) // ?countries=a,b,c
}
