package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/pulseprep/ecg_api/shared"
)

// RateLimitService applies fixed-window request limits per endpoint type and
// client IP, counted in Redis.
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Registration attempts rate limit",
			IsActive:     true,
		},
		"content": {
			EndpointType: "content",
			MaxRequests:  300,
			WindowSize:   time.Minute,
			Description:  "Content read rate limit",
			IsActive:     true,
		},
	}
}

// Limit returns a middleware enforcing the named endpoint type's window.
func (svc *RateLimitService) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.mutex.RLock()
		config, ok := svc.configs[endpointType]
		svc.mutex.RUnlock()

		if !ok || !config.IsActive {
			return c.Next()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", endpointType, c.IP())

		ctx := context.Background()
		count, err := svc.redisSvc.Incr(ctx, key)
		if err != nil {
			// Counting failure must not take the API down
			log.Printf("Rate limit counter failed for %s: %v", key, err)
			return c.Next()
		}

		if count == 1 {
			if err := svc.redisSvc.Expire(ctx, key, config.WindowSize); err != nil {
				log.Printf("Rate limit expiry failed for %s: %v", key, err)
			}
		}

		if count > int64(config.MaxRequests) {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", fiber.Map{
				"retry_after_seconds": int64(config.WindowSize.Seconds()),
			})
		}

		return c.Next()
	}
}
