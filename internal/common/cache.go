package common

import (
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

const CacheKeyBlogStats = "blog_stats"

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}

	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

// CacheKeyUserByAccessToken keys on the token hash so plaintext tokens never sit in memory longer than a request.
func CacheKeyUserByAccessToken(hash []byte) string {
	return "user_by_access_token:" + hex.EncodeToString(hash)
}
