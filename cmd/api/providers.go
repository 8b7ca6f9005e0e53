package main

import (
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
)

// 自定义Provider:构造参数需要从Config中提取,或者需要返回cleanup函数

// provideDB 创建数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info().Msg("database closed")
	}
	return db, cleanup, nil
}

// provideRedisClient 创建Redis客户端,cleanup关闭连接
func provideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
		log.Info().Msg("redis closed")
	}
	return client, cleanup, nil
}

// provideBookCache 详情缓存,cache.enabled=false时返回nil(用例直接读库)
// Redis不可用时熔断,详情请求降级为直接读库
func provideBookCache(cfg *config.Config, client *goredis.Client) *redis.BookCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	failures := cfg.Cache.BreakerFailures
	breaker := circuitbreaker.New("book-cache", circuitbreaker.Config{
		Timeout: cfg.Cache.BreakerTimeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return failures > 0 && c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return redis.NewBookCache(client, cfg.Cache.BookTTL).WithBreaker(breaker)
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideUserService user.NewService带可选参数,Wire无法直接使用
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

// provideRateLimiter 登录限流,ratelimit.enabled=false时返回nil
func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimit.LoginRate, cfg.RateLimit.LoginBurst, cfg.RateLimit.IdleTTL)
}
