package usecase

import (
	"context"

	redisclient "ironforge-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	redis       *goredis.Client
	mailEnabled bool
}

// NewHealthUsecase reports on the optional collaborators. redis is nil when
// rate limiting runs in memory.
func NewHealthUsecase(redis *goredis.Client, mailEnabled bool) HealthUsecase {
	return &healthUsecase{redis: redis, mailEnabled: mailEnabled}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":           "ok",
		"rate_limit_store": "memory",
		"mail":             "log-only",
	}
	if u.mailEnabled {
		status["mail"] = "enabled"
	}
	if u.redis != nil {
		status["rate_limit_store"] = "redis"
		if err := redisclient.HealthCheck(ctx, u.redis); err != nil {
			// the limiter falls back to memory, so this only degrades
			status["status"] = "degraded"
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
