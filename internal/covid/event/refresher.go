package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/entity"
)

type Fetcher interface {
	GetCountry(ctx context.Context, name string) (entity.CountryStat, error)
}

type Writer interface {
	Put(ctx context.Context, key string, stat entity.CountryStat, fetchedAt time.Time) error
}

// StoreRefresher re-fetches a country and overwrites its cache entry.
type StoreRefresher struct {
	Fetcher Fetcher
	Writer  Writer
	Timeout time.Duration
	Now     func() time.Time
}

func (r StoreRefresher) Handle(ctx context.Context, event entity.RefreshEvent) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	stat, err := r.Fetcher.GetCountry(ctx, event.Name)
	if err != nil {
		return err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if err := r.Writer.Put(ctx, event.Key, stat, now()); err != nil {
		return err
	}

	slog.Info("refreshed country", "key", event.Key, "country", stat.Country)
	return nil
}
