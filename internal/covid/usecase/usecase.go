package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/chart"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/covid/provider"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgroutine"
)

const (
	defaultTTL = 10 * time.Minute

	// MaxCompare bounds the countries of one comparison chart.
	MaxCompare = 8
)

// HardExpiry is the age past which a cached stat is never served.
func HardExpiry(ttl time.Duration) time.Duration {
	return 2 * ttl
}

type Provider interface {
	GetCountry(ctx context.Context, name string) (entity.CountryStat, error)
}

type Store interface {
	Get(ctx context.Context, key string) (entity.CountryStat, time.Time, error)
	Put(ctx context.Context, key string, stat entity.CountryStat, fetchedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.RefreshEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Provider Provider
	Store    Store
	Events   EventPublisher
	Clock    Clock
	// TTL is how long a cached stat is served without a refresh.
	TTL time.Duration
	// MaxConcurrency bounds the parallel provider calls of one comparison.
	MaxConcurrency int
}

type Usecase struct {
	provider       Provider
	store          Store
	events         EventPublisher
	clock          Clock
	ttl            time.Duration
	maxConcurrency int
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	ttl := dep.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Usecase{
		provider:       dep.Provider,
		store:          dep.Store,
		events:         dep.Events,
		clock:          clock,
		ttl:            ttl,
		maxConcurrency: dep.MaxConcurrency,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Country renders the ring chart of one country.
func (u *Usecase) Country(ctx context.Context, name string) (CountryResult, error) {
	stat, err := u.lookup(ctx, name)
	if err != nil {
		return CountryResult{}, err
	}

	bd, err := chart.RenderBreakdown(stat)
	if err != nil {
		return CountryResult{}, pkgerror.NewServer(fmt.Errorf("render breakdown: %w", err))
	}

	return CountryResult{
		Stat:        stat,
		Wedges:      bd.Wedges,
		Center:      bd.Center,
		Placeholder: bd.Placeholder,
		Image:       chart.EncodeBase64(bd.PNG),
	}, nil
}

// Compare renders a grouped bar chart of the given countries in input order.
// Blank names are ignored. Any failed lookup fails the whole comparison.
func (u *Usecase) Compare(ctx context.Context, names []string) (CompareResult, error) {
	names = compact(names)
	if len(names) == 0 {
		return CompareResult{}, pkgerror.NewInvalidInput(chart.ErrEmptyInput)
	}
	if len(names) > MaxCompare {
		return CompareResult{}, pkgerror.NewInvalidInput(fmt.Errorf("at most %d countries can be compared", MaxCompare))
	}

	stats, err := u.lookupAll(ctx, names)
	if err != nil {
		return CompareResult{}, err
	}

	cmp, err := chart.RenderComparison(stats, entity.DefaultCategories)
	if err != nil {
		if errors.Is(err, chart.ErrEmptyInput) {
			return CompareResult{}, pkgerror.NewInvalidInput(err)
		}
		return CompareResult{}, pkgerror.NewServer(fmt.Errorf("render comparison: %w", err))
	}

	return CompareResult{
		Title: cmp.Title,
		Stats: stats,
		YMax:  cmp.YMax,
		Image: chart.EncodeBase64(cmp.PNG),
	}, nil
}

func (u *Usecase) USAvChina(ctx context.Context) (CompareResult, error) {
	return u.Compare(ctx, []string{"usa", "china"})
}

// Routes lists the pages linked from the index.
func (u *Usecase) Routes() []entity.Route {
	return []entity.Route{
		{
			Path:        "/usavchina",
			Name:        "USA vs China COVID-19 Comparison",
			Description: "Compare COVID-19 statistics between USA and China",
		},
		{
			Path:        "/compare?countries=usa,india,brazil",
			Name:        "Custom Comparison",
			Description: "Compare any set of countries side by side",
		},
		{
			Path:        "/country/usa",
			Name:        "Country Breakdown",
			Description: "Active, critical, deaths and recovered cases of a single country",
		},
	}
}

// lookup serves fresh cache hits directly, serves stale hits while a refresh
// is queued and falls back to the provider on a miss. Entries older than
// HardExpiry(ttl) count as a miss, so provider errors surface again.
func (u *Usecase) lookup(ctx context.Context, name string) (entity.CountryStat, error) {
	key := provider.Normalize(name)
	if key == "" {
		return entity.CountryStat{}, pkgerror.NewNotFound("country not found", errors.New("empty country name"))
	}

	if u.store != nil {
		stat, fetchedAt, err := u.store.Get(ctx, key)
		switch {
		case err == nil:
			age := u.clock.Now().Sub(fetchedAt)
			if age < u.ttl {
				return stat, nil
			}
			if age < HardExpiry(u.ttl) {
				u.refresh(ctx, key)
				return stat, nil
			}
		case !errors.Is(err, pkgerror.ErrNotFound):
			slog.WarnContext(ctx, "failed to read cached country", "key", key, "error", err)
		}
	}

	if u.provider == nil {
		return entity.CountryStat{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	stat, err := u.provider.GetCountry(ctx, key)
	if err != nil {
		return entity.CountryStat{}, normalizeErr(err)
	}

	if u.store != nil {
		if err := u.store.Put(ctx, key, stat, u.clock.Now()); err != nil {
			slog.WarnContext(ctx, "failed to cache country", "key", key, "error", err)
		}
	}

	return stat, nil
}

func (u *Usecase) lookupAll(ctx context.Context, names []string) ([]entity.CountryStat, error) {
	stats := make([]entity.CountryStat, len(names))
	errs := make([]error, len(names))

	runner := pkgroutine.NewManager(u.maxConcurrency)
	for i, name := range names {
		runner.Go(ctx, func(ctx context.Context) error {
			stats[i], errs[i] = u.lookup(ctx, name)
			return errs[i]
		})
	}

	if err := runner.Wait(); err != nil {
		// Report the first failure in input order.
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, normalizeErr(err)
	}

	return stats, nil
}

func (u *Usecase) refresh(ctx context.Context, key string) {
	if u.events == nil {
		return
	}

	if err := u.events.Publish(ctx, entity.RefreshEvent{Key: key, Name: key}); err != nil {
		slog.WarnContext(ctx, "failed to queue refresh", "key", key, "error", err)
	}
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerror.NewTimeout(err)
	}
	return pkgerror.NewServer(err)
}
