package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

// RedisStore keeps each board as a JSON string under
// <prefix>board:<tenant>:<id> and indexes IDs in the set <prefix>tenant:<tenant>.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix, defaults to "campaigncanvas:"
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "campaigncanvas:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}, nil
}

func (s *RedisStore) boardKey(tenant, id string) string {
	return s.prefix + "board:" + tenant + ":" + id
}

func (s *RedisStore) indexKey(tenant string) string {
	return s.prefix + "tenant:" + tenant
}

func (s *RedisStore) Get(ctx context.Context, tenant, id string) (*canvas.Board, error) {
	if err := checkKey(tenant, id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.boardKey(tenant, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(tenant, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var b canvas.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board %s/%s: %w", tenant, id, err)
	}
	return &b, nil
}

func (s *RedisStore) Put(ctx context.Context, board *canvas.Board) error {
	if err := prepare(board, s.now); err != nil {
		return err
	}
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.boardKey(board.Tenant, board.ID), data, 0)
		p.SAdd(ctx, s.indexKey(board.Tenant), board.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, tenant, id string) error {
	if err := checkKey(tenant, id); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.boardKey(tenant, id))
		p.SRem(ctx, s.indexKey(tenant), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return notFound(tenant, id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, tenant string) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(tenant)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	out := make([]Summary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.boardKey(tenant, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var b canvas.Board
		if err := json.Unmarshal([]byte(str), &b); err != nil {
			continue
		}
		out = append(out, Summarize(&b))
	}
	sortSummaries(out)
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
