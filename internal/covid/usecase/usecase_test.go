package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/chart"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/covid/store"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	stats map[string]entity.CountryStat
	calls map[string]int
	err   error
}

func newFakeProvider(stats ...entity.CountryStat) *fakeProvider {
	p := &fakeProvider{stats: make(map[string]entity.CountryStat), calls: make(map[string]int)}
	for _, s := range stats {
		p.stats[strings.ToLower(s.Country)] = s
	}
	return p
}

func (p *fakeProvider) GetCountry(ctx context.Context, name string) (entity.CountryStat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls[name]++
	if p.err != nil {
		return entity.CountryStat{}, p.err
	}
	s, ok := p.stats[name]
	if !ok {
		return entity.CountryStat{}, pkgerror.NewNotFound("country not found", errors.New(name+": Country not found"))
	}
	return s, nil
}

func (p *fakeProvider) callsFor(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

type fakeBus struct {
	mu     sync.Mutex
	events []entity.RefreshEvent
}

func (b *fakeBus) Publish(ctx context.Context, event entity.RefreshEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var (
	usa   = entity.CountryStat{Country: "USA", Confirmed: 1000, Deaths: 10, Recovered: 900, Active: 80, Critical: 10}
	china = entity.CountryStat{Country: "China", Confirmed: 500, Deaths: 5, Recovered: 450, Active: 40, Critical: 5}
)

func newTestUsecase(p Provider) (*Usecase, *fakeBus, *fixedClock) {
	bus := &fakeBus{}
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	uc := New(Dependency{
		Provider: p,
		Store:    store.NewInMemoryStore(),
		Events:   bus,
		Clock:    clock,
		TTL:      time.Minute,
	})
	return uc, bus, clock
}

func TestCountry_CaseInsensitive(t *testing.T) {
	p := newFakeProvider(usa)
	uc, _, _ := newTestUsecase(p)

	upper, err := uc.Country(context.Background(), "USA")
	require.NoError(t, err)
	lower, err := uc.Country(context.Background(), "usa")
	require.NoError(t, err)

	assert.Equal(t, upper.Stat, lower.Stat)
	assert.Equal(t, 1, p.callsFor("usa"), "second lookup is served from cache")
	assert.NotEmpty(t, upper.Image)
	assert.Len(t, upper.Wedges, 4)
	assert.Equal(t, "USA\nTotal: 1,000", upper.Center)
}

func TestCountry_Placeholder(t *testing.T) {
	p := newFakeProvider(entity.CountryStat{Country: "Nowhere", Confirmed: 3})
	uc, _, _ := newTestUsecase(p)

	res, err := uc.Country(context.Background(), "nowhere")

	require.NoError(t, err)
	assert.True(t, res.Placeholder)
	assert.Empty(t, res.Wedges)
	assert.NotEmpty(t, res.Image)
}

func TestCountry_UnknownCountry(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider())

	_, err := uc.Country(context.Background(), "atlantis")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeNotFound, pkgerror.CodeOf(err))
}

func TestCountry_StaleHitQueuesRefresh(t *testing.T) {
	p := newFakeProvider(usa)
	uc, bus, clock := newTestUsecase(p)
	ctx := context.Background()

	_, err := uc.Country(ctx, "usa")
	require.NoError(t, err)
	assert.Empty(t, bus.events)

	clock.now = clock.now.Add(90 * time.Second)
	res, err := uc.Country(ctx, "usa")

	require.NoError(t, err)
	assert.Equal(t, usa, res.Stat)
	assert.Equal(t, 1, p.callsFor("usa"))
	assert.Equal(t, []entity.RefreshEvent{{Key: "usa", Name: "usa"}}, bus.events)
}

func TestCountry_ExpiredEntryPropagatesUpstreamError(t *testing.T) {
	p := newFakeProvider(usa)
	uc, bus, clock := newTestUsecase(p)
	ctx := context.Background()

	_, err := uc.Country(ctx, "usa")
	require.NoError(t, err)

	p.mu.Lock()
	p.err = pkgerror.NewUpstream(errors.New("lookup usa: unexpected status 503"))
	p.mu.Unlock()
	clock.now = clock.now.Add(30 * 24 * time.Hour)

	_, err = uc.Country(ctx, "usa")

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
	assert.Equal(t, 2, p.callsFor("usa"))
	assert.Empty(t, bus.events)
}

func TestCountry_ExpiredEntryIsRefetched(t *testing.T) {
	p := newFakeProvider(usa)
	uc, bus, clock := newTestUsecase(p)
	ctx := context.Background()

	_, err := uc.Country(ctx, "usa")
	require.NoError(t, err)

	clock.now = clock.now.Add(HardExpiry(time.Minute))
	res, err := uc.Country(ctx, "usa")

	require.NoError(t, err)
	assert.Equal(t, usa, res.Stat)
	assert.Equal(t, 2, p.callsFor("usa"))
	assert.Empty(t, bus.events)
}

func TestCountry_UpstreamErrorPropagates(t *testing.T) {
	p := newFakeProvider()
	p.err = pkgerror.NewUpstream(errors.New("lookup usa: unexpected status 500"))
	uc, _, _ := newTestUsecase(p)

	_, err := uc.Country(context.Background(), "usa")

	assert.Equal(t, pkgerror.CodeUpstream, pkgerror.CodeOf(err))
}

func TestCountry_ForeignErrorIsInternal(t *testing.T) {
	p := newFakeProvider()
	p.err = errors.New("boom")
	uc, _, _ := newTestUsecase(p)

	_, err := uc.Country(context.Background(), "usa")

	assert.Equal(t, pkgerror.CodeInternal, pkgerror.CodeOf(err))
}

func TestCompare_KeepsInputOrder(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider(usa, china))

	res, err := uc.Compare(context.Background(), []string{"China", " ", "USA"})

	require.NoError(t, err)
	require.Len(t, res.Stats, 2)
	assert.Equal(t, "China", res.Stats[0].Country)
	assert.Equal(t, "USA", res.Stats[1].Country)
	assert.InDelta(t, 1150.0, res.YMax, 1e-9)
	assert.NotEmpty(t, res.Image)
}

func TestCompare_EmptyInput(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider())

	for _, names := range [][]string{nil, {}, {"", "  "}} {
		_, err := uc.Compare(context.Background(), names)
		require.Error(t, err)
		assert.Equal(t, pkgerror.CodeInvalidInput, pkgerror.CodeOf(err))
		assert.ErrorIs(t, err, chart.ErrEmptyInput)
	}
}

func TestCompare_TooMany(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider())
	names := make([]string, MaxCompare+1)
	for i := range names {
		names[i] = "usa"
	}

	_, err := uc.Compare(context.Background(), names)

	assert.Equal(t, pkgerror.CodeInvalidInput, pkgerror.CodeOf(err))
}

func TestCompare_OneFailureFailsAll(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider(usa))

	_, err := uc.Compare(context.Background(), []string{"usa", "atlantis"})

	require.Error(t, err)
	assert.Equal(t, pkgerror.CodeNotFound, pkgerror.CodeOf(err))
	assert.Contains(t, err.Error(), "atlantis")
}

func TestUSAvChina(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider(usa, china))

	res, err := uc.USAvChina(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "COVID-19 Cases: USA vs China Comparison", res.Title)
	assert.InDelta(t, 1.15*1000, res.YMax, 1e-9)
}

func TestRoutes(t *testing.T) {
	uc, _, _ := newTestUsecase(newFakeProvider())

	routes := uc.Routes()

	require.NotEmpty(t, routes)
	assert.Equal(t, "/usavchina", routes[0].Path)
}
