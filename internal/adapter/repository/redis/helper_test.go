package redis

import (
	"sort"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// cachedReportKeys lists the report cache keys held by mr, without the
// splitter namespace, in sorted order.
func cachedReportKeys(t *testing.T, mr *miniredis.Miniredis) []string {
	t.Helper()

	var keys []string
	for _, key := range mr.Keys() {
		if rest, ok := strings.CutPrefix(key, cacheKeyPrefix); ok {
			keys = append(keys, rest)
		}
	}
	sort.Strings(keys)
	return keys
}
