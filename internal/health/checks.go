// Package health assembles the readiness checks served on /health.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const Version = "1.0.0"

// Pinger reports whether the remote storefront API answers.
type Pinger interface {
	Health(ctx context.Context) error
}

// Checks lists the probes for the configured storage driver plus the
// backend API. A failing backend only marks the service partially available.
func Checks(cfg *config.Config, backend Pinger) []health.Config {
	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: func(ctx context.Context) error {
				if backend == nil {
					return fmt.Errorf("backend client is not initialized")
				}
				return backend.Health(ctx)
			},
		},
	}

	switch cfg.Storage.Driver {
	case "postgres":
		checks = append(checks, health.Config{
			Name:    "database",
			Timeout: 3 * time.Second,
			Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
		})
	case "redis":
		checks = append(checks, health.Config{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check:   healthRedis.New(healthRedis.Config{DSN: cfg.RedisConnect.GetDSN()}),
		})
	default:
		dir := cfg.Storage.Dir
		checks = append(checks, health.Config{
			Name:    "storage",
			Timeout: time.Second,
			Check: func(context.Context) error {
				info, err := os.Stat(dir)
				if err != nil {
					return fmt.Errorf("storage dir: %w", err)
				}
				if !info.IsDir() {
					return fmt.Errorf("storage dir %s is not a directory", dir)
				}
				return nil
			},
		})
	}

	return checks
}

func NewHealthHandler(cfg *config.Config, backend Pinger) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(Checks(cfg, backend)...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
