package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

const (
	DefaultRedisKeyPrefix = "inventory"
	idempotencyKeyTTL     = 24 * time.Hour
)

// saveSnapshotScript replaces the item index and every stock key in one step.
// KEYS[1] is the index list, ARGV[1] the stock key prefix, followed by
// item/quantity pairs in insertion order.
var saveSnapshotScript = redis.NewScript(`
local index = KEYS[1]
local prefix = ARGV[1]

local old = redis.call('LRANGE', index, 0, -1)
for _, item in ipairs(old) do
	redis.call('DEL', prefix .. item)
end
redis.call('DEL', index)

for i = 2, #ARGV, 2 do
	redis.call('RPUSH', index, ARGV[i])
	redis.call('SET', prefix .. ARGV[i], ARGV[i + 1])
end

return #old
`)

// RedisAdapter stores the inventory as a list of item names under
// "<prefix>:items" and one counter per item under "<prefix>:stock:<item>".
type RedisAdapter struct {
	client *redis.Client
	prefix string
	logger port.Logger
}

func NewRedisAdapter(client *redis.Client, keyPrefix string, logger port.Logger) *RedisAdapter {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisAdapter{client: client, prefix: keyPrefix, logger: logger}
}

func (r *RedisAdapter) indexKey() string {
	return r.prefix + ":items"
}

func (r *RedisAdapter) stockKey(item string) string {
	return r.prefix + ":stock:" + item
}

func (r *RedisAdapter) Load(ctx context.Context) (*domain.Inventory, error) {
	names, err := r.client.LRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read item index: %w", err)
	}

	inv := domain.NewInventory()
	if len(names) == 0 {
		r.logger.Warnf("'%s' not found. Starting with empty inventory.", r.indexKey())
		return inv, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.stockKey(name)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read stock: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("read stock: missing quantity for item %q", names[i])
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("read stock: item %q: %w", names[i], err)
		}
		inv.Set(names[i], qty)
	}

	return inv, nil
}

func (r *RedisAdapter) Save(ctx context.Context, inv *domain.Inventory) error {
	args := make([]interface{}, 0, 1+2*inv.Len())
	args = append(args, r.stockKey(""))
	for _, level := range inv.Items() {
		args = append(args, level.Item, level.Quantity)
	}

	if err := saveSnapshotScript.Run(ctx, r.client, []string{r.indexKey()}, args...).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
