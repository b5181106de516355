package db

import (
	"context"

	"QrestAPI/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RDB — опциональный клиент Redis для распределённого слоя кэша COUNT-ов.
// Если адрес не задан, остаётся nil и кэш работает только в памяти процесса.
var RDB *redis.Client

// InitRedis принимает адрес явно (а не через os.Getenv)
func InitRedis(addr string) {
	if addr == "" {
		logger.Info("redis_disabled", nil)
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func PingRedis() error {
	if RDB == nil {
		return nil
	}
	return RDB.Ping(context.Background()).Err()
}
