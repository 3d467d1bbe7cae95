package usecase

import (
	"github.com/shandysiswandi/gocovid/internal/covid/chart"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
)

type CountryResult struct {
	Stat        entity.CountryStat
	Wedges      []chart.Wedge
	Center      string
	Placeholder bool
	// Image is the base64 encoded PNG.
	Image string
}

type CompareResult struct {
	Title string
	Stats []entity.CountryStat
	YMax  float64
	Image string
}
