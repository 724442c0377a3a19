package redis

import (
	"context"
	"errors"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SlotRepo хранит значения слотов корзины строками в Redis.
type SlotRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewSlotRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *SlotRepo {
	return &SlotRepo{
		client: client,
		cfg:    cfg,
	}
}

// Read возвращает ok=false при отсутствии ключа (redis.Nil).
func (s *SlotRepo) Read(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Client.Get(ctx, s.slotKey(key)).Result()
	if errors.Is(err, r.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return val, true, nil
}

// Write перезаписывает значение. TTL продлевается при каждой записи; 0 — без истечения.
func (s *SlotRepo) Write(ctx context.Context, key string, value string) error {
	if err := s.client.Client.Set(ctx, s.slotKey(key), value, s.cfg.CartTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// slotKey возвращает Redis-ключ слота
func (s *SlotRepo) slotKey(key string) string {
	return "slot:" + key
}
