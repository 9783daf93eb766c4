package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoriesKey = "catalog:categories"
	skillsKey     = "catalog:skills"
	cacheTTL      = 10 * time.Minute
)

// Cache holds the catalog lists in Redis. Both catalogs are small and
// change only when the seeder runs, so whole-list entries with a TTL
// are enough.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) GetCategories(ctx context.Context) ([]CategoryRef, bool) {
	var out []CategoryRef
	if !c.get(ctx, categoriesKey, &out) {
		return nil, false
	}
	return out, true
}

func (c *Cache) SetCategories(ctx context.Context, refs []CategoryRef) {
	c.set(ctx, categoriesKey, refs)
}

func (c *Cache) GetSkills(ctx context.Context) ([]SkillRef, bool) {
	var out []SkillRef
	if !c.get(ctx, skillsKey, &out) {
		return nil, false
	}
	return out, true
}

func (c *Cache) SetSkills(ctx context.Context, refs []SkillRef) {
	c.set(ctx, skillsKey, refs)
}

// Invalidate drops both cached lists; called after seeding.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey, skillsKey).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil is a plain miss; anything else degrades to the DB.
		return false
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, cacheTTL)
}
