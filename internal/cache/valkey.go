// Package cache connects to Valkey and holds the JSON response cache of
// the list endpoints.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyConfig addresses one Valkey logical database.
type ValkeyConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ConnectValkey returns a client for cfg once it answers a ping.
func ConnectValkey(ctx context.Context, cfg ValkeyConfig) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr, "db", cfg.DB)
	return client, nil
}
