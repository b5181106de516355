package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"QrestAPI/internal/db"
	"QrestAPI/internal/logger"
)

// Кэш COUNT-ов: локальный слой в памяти процесса плюс опциональный
// Redis. COUNT по большой таблице с JOIN-ами — самая дорогая часть
// range-метаданных, а от точности "total" с точностью до секунд ничего
// не зависит, поэтому короткий TTL здесь уместен.
const (
	countCacheSweepFreq  = time.Minute
	defaultCountCacheTTL = 30 * time.Second
	defaultCountCacheMax = 4096
)

type countCacheEntry struct {
	count    uint64
	storedAt time.Time
}

type countCache struct {
	mu         sync.Mutex
	items      map[string]countCacheEntry
	ttl        time.Duration
	maxEntries int
	lastSweep  time.Time
}

var globalCountCache = &countCache{
	items:      make(map[string]countCacheEntry),
	ttl:        defaultCountCacheTTL,
	maxEntries: defaultCountCacheMax,
}

// ConfigureCountCache задаёт TTL и предел записей. ttl <= 0 полностью
// выключает кэширование (каждый запрос идёт в базу).
func ConfigureCountCache(ttl time.Duration, maxEntries int) {
	globalCountCache.mu.Lock()
	defer globalCountCache.mu.Unlock()
	globalCountCache.ttl = ttl
	if maxEntries > 0 {
		globalCountCache.maxEntries = maxEntries
	}
}

func (c *countCache) get(key string, now time.Time) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ttl <= 0 {
		return 0, false
	}
	c.maybeSweepLocked(now)
	entry, ok := c.items[key]
	if !ok || now.Sub(entry.storedAt) > c.ttl {
		delete(c.items, key)
		return 0, false
	}
	return entry.count, true
}

func (c *countCache) set(key string, count uint64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ttl <= 0 {
		return
	}
	c.maybeSweepLocked(now)
	if len(c.items) >= c.maxEntries {
		// переполнение: проще сбросить всё, чем вести LRU ради счётчиков
		c.items = make(map[string]countCacheEntry)
	}
	c.items[key] = countCacheEntry{count: count, storedAt: now}
}

func (c *countCache) maybeSweepLocked(now time.Time) {
	if !c.lastSweep.IsZero() && now.Sub(c.lastSweep) < countCacheSweepFreq {
		return
	}
	for key, entry := range c.items {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.items, key)
		}
	}
	c.lastSweep = now
}

// CachedCount возвращает закэшированный COUNT или вычисляет его через
// fetch. Порядок: память процесса → Redis → база. Любая ошибка кэша —
// fail-soft: логируем и считаем из базы.
func CachedCount(ctx context.Context, key string, fetch func(context.Context) (uint64, error)) (uint64, error) {
	now := time.Now()
	if count, ok := globalCountCache.get(key, now); ok {
		return count, nil
	}

	redisKey := "qrest:count:" + key
	ttl := globalCountCache.ttl
	if db.RDB != nil && ttl > 0 {
		if cached, err := db.RDB.Get(ctx, redisKey).Result(); err == nil {
			if count, err := strconv.ParseUint(cached, 10, 64); err == nil {
				globalCountCache.set(key, count, now)
				return count, nil
			}
		}
	}

	count, err := fetch(ctx)
	if err != nil {
		return 0, err
	}

	globalCountCache.set(key, count, now)
	if db.RDB != nil && ttl > 0 {
		if err := db.RDB.Set(ctx, redisKey, strconv.FormatUint(count, 10), ttl).Err(); err != nil {
			logger.Warn("count_cache_store_failed", map[string]any{"error": err.Error()})
		}
	}
	return count, nil
}
