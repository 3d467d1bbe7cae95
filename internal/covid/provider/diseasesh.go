package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
)

const (
	DefaultBaseURL = "https://disease.sh"
	DefaultTimeout = 10 * time.Second

	countryPath = "/v3/covid-19/countries/{name}"
)

// Options configures a DiseaseSH client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// DiseaseSH reads per-country statistics from the disease.sh API.
//
// It is safe for concurrent use; build one at start-up and share it.
type DiseaseSH struct {
	client *resty.Client
}

type countryResponse struct {
	Updated   int64  `json:"updated"`
	Country   string `json:"country"`
	Cases     int64  `json:"cases"`
	Deaths    int64  `json:"deaths"`
	Recovered int64  `json:"recovered"`
	Active    int64  `json:"active"`
	Critical  int64  `json:"critical"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewDiseaseSH builds a client. Zero option fields fall back to the defaults.
func NewDiseaseSH(opt Options) *DiseaseSH {
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opt.BaseURL, "/")).
		SetTimeout(opt.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(slogLogger{})

	return &DiseaseSH{client: client}
}

// Normalize is the lookup key of a country name: trimmed and lower-cased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetCountry fetches the statistics of one country. The name is matched
// case-insensitively.
//
// Unknown names yield a CodeNotFound error; transport failures, unexpected
// statuses and undecodable bodies yield CodeUpstream (CodeTimeout when the
// call ran out of time).
func (d *DiseaseSH) GetCountry(ctx context.Context, name string) (entity.CountryStat, error) {
	key := Normalize(name)
	if key == "" {
		return entity.CountryStat{}, pkgerror.NewNotFound("country not found", errors.New("empty country name"))
	}

	var body countryResponse
	var apiErr errorResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetPathParam("name", key).
		SetResult(&body).
		SetError(&apiErr).
		Get(countryPath)
	if err != nil {
		return entity.CountryStat{}, transportErr(key, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		msg := apiErr.Message
		if msg == "" {
			msg = "country not found"
		}
		return entity.CountryStat{}, pkgerror.NewNotFound("country not found", fmt.Errorf("%s: %s", key, msg))
	case resp.IsError():
		return entity.CountryStat{}, pkgerror.NewUpstream(fmt.Errorf("lookup %s: unexpected status %d", key, resp.StatusCode()))
	case body.Country == "":
		return entity.CountryStat{}, pkgerror.NewUpstream(fmt.Errorf("lookup %s: empty record", key))
	}

	return toEntity(body), nil
}

func toEntity(body countryResponse) entity.CountryStat {
	stat := entity.CountryStat{
		Country:   body.Country,
		Confirmed: body.Cases,
		Deaths:    body.Deaths,
		Recovered: body.Recovered,
		Active:    body.Active,
		Critical:  body.Critical,
	}
	if body.Updated > 0 {
		stat.UpdatedAt = time.UnixMilli(body.Updated).UTC()
	}
	return stat
}

func transportErr(key string, err error) error {
	wrapped := fmt.Errorf("lookup %s: %w", key, err)

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return pkgerror.NewTimeout(wrapped)
	}
	return pkgerror.NewUpstream(wrapped)
}

// slogLogger routes resty's internal messages to the default slog logger.
type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...any) {
	slog.Error("resty: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (slogLogger) Warnf(format string, v ...any) {
	slog.Warn("resty: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (slogLogger) Debugf(format string, v ...any) {
	slog.Debug("resty: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
