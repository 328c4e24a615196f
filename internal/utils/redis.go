// 包 utils：Redis 连接工具，统一环境变量读取与可选 DB 选择
package utils

import (
	"os"
	"strconv"

	"camp-map/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：从环境变量打开 Redis 客户端
// 背景：Redis 为可选依赖，仅用于定位结果的热点缓存与访客去重位图；未配置地址时返回 nil，调用方需判空降级
// 约束：REDIS_DB 解析失败时忽略并回退到 0
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	addr := host + ":" + port
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}
