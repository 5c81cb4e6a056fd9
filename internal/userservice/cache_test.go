package userservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsopen/bloglist/internal/common"
)

func TestCacheUser(t *testing.T) {
	testCases := []struct {
		name        string
		untilExpiry time.Duration
		wantCached  bool
		wantMaxTTL  time.Duration
	}{
		{name: "already expired", untilExpiry: -time.Second, wantCached: false},
		{name: "expires now", untilExpiry: 0, wantCached: false},
		{name: "expires before the cache ttl", untilExpiry: 10 * time.Second, wantCached: true, wantMaxTTL: 10 * time.Second},
		{name: "expires after the cache ttl", untilExpiry: time.Hour, wantCached: true, wantMaxTTL: userCacheTTL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &UserService{c: common.NewCache(time.Hour, time.Hour)}
			key := common.CacheKeyUserByAccessToken(hashToken("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))

			s.cacheUser(key, &User{ID: 1, Username: "root"}, tc.untilExpiry)

			_, expiration, found := s.c.GetWithExpiration(key)
			assert.Equal(t, tc.wantCached, found)
			if !tc.wantCached {
				return
			}

			require.False(t, expiration.IsZero(), "cached users always expire")
			assert.WithinDuration(t, time.Now().Add(tc.wantMaxTTL), expiration, time.Second)
		})
	}
}
