package covid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/event"
	"github.com/shandysiswandi/gocovid/internal/covid/inbound"
	"github.com/shandysiswandi/gocovid/internal/covid/provider"
	"github.com/shandysiswandi/gocovid/internal/covid/store"
	"github.com/shandysiswandi/gocovid/internal/covid/usecase"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgrouter"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Context context.Context
}

type cacheStore interface {
	usecase.Store
	Close() error
}

func New(dep Dependency) (func(context.Context) error, error) {
	ttl := dep.Config.GetDuration("store.ttl")

	storage, err := newStore(dep.Config, ttl)
	if err != nil {
		return nil, err
	}

	client := provider.NewDiseaseSH(provider.Options{
		BaseURL: dep.Config.GetString("provider.base_url"),
		Timeout: dep.Config.GetDuration("provider.timeout"),
	})

	bus := event.NewBus(128)
	consumer := event.NewRefreshConsumer(bus, event.StoreRefresher{
		Fetcher: client,
		Writer:  storage,
		Timeout: dep.Config.GetDuration("provider.timeout"),
	}, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("refresh.workers")),
		MaxRetries:  int(dep.Config.GetInt("refresh.max_retries")),
		BaseBackoff: dep.Config.GetDuration("refresh.base_backoff"),
	})
	root := dep.Context
	if root == nil {
		root = context.Background()
	}
	consumer.Start(root)

	uc := usecase.New(usecase.Dependency{
		Provider:       client,
		Store:          storage,
		Events:         bus,
		TTL:            ttl,
		MaxConcurrency: usecase.MaxCompare,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return func(ctx context.Context) error {
		return errors.Join(consumer.Stop(ctx), storage.Close())
	}, nil
}

func newStore(cfg pkgconfig.Config, ttl time.Duration) (cacheStore, error) {
	switch driver := cfg.GetString("store.driver"); driver {
	case "", "memory":
		return store.NewInMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(store.RedisOptions{
			Hosts:         cfg.GetArray("store.redis.hosts"),
			Password:      cfg.GetString("store.redis.password"),
			TLSEnabled:    cfg.GetBool("store.redis.tls.enabled"),
			TLSServerName: cfg.GetString("store.redis.tls.server_name"),
			Expiry:        usecase.HardExpiry(ttl),
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
