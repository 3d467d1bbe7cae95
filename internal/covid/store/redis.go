package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
)

const keyPrefix = "gocovid:stat:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Hosts         []string
	Password      string
	TLSEnabled    bool
	TLSServerName string
	// Expiry is the hard lifetime of an entry in redis.
	Expiry time.Duration
}

// RedisStore shares cached statistics between instances through redis.
type RedisStore struct {
	client rueidis.Client
	expiry time.Duration
}

type redisRecord struct {
	Stat      entity.CountryStat `json:"stat"`
	FetchedAt time.Time          `json:"fetched_at"`
}

func NewRedisStore(opt RedisOptions) (*RedisStore, error) {
	clientOption := rueidis.ClientOption{
		InitAddress: opt.Hosts,
		Password:    opt.Password,
	}
	if opt.TLSEnabled {
		clientOption.TLSConfig = &tls.Config{
			ServerName: opt.TLSServerName,
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := rueidis.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisStore(client, opt.Expiry), nil
}

func newRedisStore(client rueidis.Client, expiry time.Duration) *RedisStore {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &RedisStore{client: client, expiry: expiry}
}

// Get returns the cached stat and when it was fetched, or pkgerror.ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) (entity.CountryStat, time.Time, error) {
	raw, err := r.client.Do(ctx, r.client.B().Get().Key(keyPrefix+key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return entity.CountryStat{}, time.Time{}, pkgerror.ErrNotFound
		}
		return entity.CountryStat{}, time.Time{}, err
	}

	var rec redisRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.CountryStat{}, time.Time{}, fmt.Errorf("decode cached %s: %w", key, err)
	}

	return rec.Stat, rec.FetchedAt, nil
}

// Put stores stat under key with the configured expiry.
func (r *RedisStore) Put(ctx context.Context, key string, stat entity.CountryStat, fetchedAt time.Time) error {
	raw, err := json.Marshal(redisRecord{Stat: stat, FetchedAt: fetchedAt})
	if err != nil {
		return err
	}

	return r.client.Do(ctx, r.client.B().Set().Key(keyPrefix+key).Value(rueidis.BinaryString(raw)).Ex(r.expiry).Build()).Error()
}

func (r *RedisStore) Close() error {
	r.client.Close()
	return nil
}
