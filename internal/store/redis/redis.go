package redis

import (
	"context"
	"fmt"

	"github.com/nulzo/llm-translate/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// Repository stores settings as a single redis hash.
type Repository struct {
	client *goredis.Client
	key    string
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// New connects and pings the server.
func New(ctx context.Context, opts Options) (*Repository, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &Repository{client: client, key: opts.Key}, nil
}

func (r *Repository) Get(ctx context.Context) (*store.Settings, error) {
	kv, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	return store.Decode(kv)
}

// Save replaces the hash atomically.
func (r *Repository) Save(ctx context.Context, s *store.Settings) error {
	kv := store.Encode(s)
	values := make([]interface{}, 0, len(kv)*2)
	for k, v := range kv {
		values = append(values, k, v)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, values...)
		return nil
	})
	return err
}

func (r *Repository) Close() error {
	return r.client.Close()
}

var _ store.SettingsRepository = (*Repository)(nil)
