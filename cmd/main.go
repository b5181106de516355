package main

import (
	"QrestAPI/internal/config"
	"QrestAPI/internal/db"
	"QrestAPI/internal/logger"
	"QrestAPI/internal/router"
	"QrestAPI/internal/schema"
	"QrestAPI/internal/store"
	"flag"
	"net/http"
	"time"

	"fmt"
	"os"
)

func main() {
	debugFlag := flag.Bool("d", false, "enable debug logging")
	flag.Parse()

	cfg := config.LoadConfig()
	if err := logger.Init("."); err != nil {
		fmt.Fprintf(os.Stderr, "log init failed: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(*debugFlag)

	// PostgreSQL
	if err := db.InitPostgres(cfg.PostgresDSN); err != nil {
		logger.Error("postgres_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.Info("postgres_connected", nil)

	// Redis опционален: без него кэш COUNT-ов живёт только в памяти
	db.InitRedis(cfg.RedisAddr)
	if err := db.PingRedis(); err != nil {
		logger.Warn("redis_unavailable", map[string]any{"error": err.Error()})
	}
	store.ConfigureCountCache(
		time.Duration(cfg.CountCache.TTLSec)*time.Second,
		int(cfg.CountCache.MaxEntries),
	)

	// Whitelist-реестр: один раз при старте, дальше только чтение
	if err := schema.InitRegistry(cfg.SchemaDir); err != nil {
		logger.Error("registry_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.Info("schema_initialized", map[string]any{"entities": len(schema.Registry)})

	// Initialize routes
	if err := router.InitRoutes(cfg); err != nil {
		logger.Error("router_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Start HTTP server
	logger.Info("server_start", map[string]any{"port": cfg.Port, "dialect": cfg.Dialect})
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.Error("server_error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
