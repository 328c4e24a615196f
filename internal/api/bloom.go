package api

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 文档注释：基于 Redis 位图的访客去重（布隆近似）
// 背景：统计"独立访客"需要短周期去重，位图按天滚动，误判率以位图大小与哈希次数权衡。
// 约束：m 取 2 的幂以便分布均匀；rc 为 nil 时视为"非首次"，避免无去重时虚增访客数。
const (
	bloomBits   = 1 << 20
	bloomHashes = 4
)

func bloomPositions(data []byte, m uint32, k int) []int64 {
	pos := make([]int64, k)
	for i := 0; i < k; i++ {
		h := fnv.New64a()
		h.Write([]byte{byte(i)})
		h.Write(data)
		pos[i] = int64(uint32(h.Sum64() % uint64(m)))
	}
	return pos
}

// visitorFirstSeen：当日首次见到该访客时返回 true 并写入位图
func visitorFirstSeen(ctx context.Context, rc *redis.Client, ip string) bool {
	if rc == nil || ip == "" {
		return false
	}
	key := "visitors:" + time.Now().UTC().Format("20060102")
	seen := true
	positions := bloomPositions([]byte(ip), bloomBits, bloomHashes)
	for _, p := range positions {
		b, err := rc.GetBit(ctx, key, p).Result()
		if err != nil {
			return false
		}
		if b == 0 {
			seen = false
		}
	}
	if seen {
		return false
	}
	for _, p := range positions {
		_, _ = rc.SetBit(ctx, key, p, 1).Result()
	}
	_ = rc.Expire(ctx, key, 48*time.Hour).Err()
	return true
}
