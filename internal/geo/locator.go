package geo

import (
	"os"
	"strconv"
)

// 文档注释：定位编排器（LRU → 命中判定 → 标注解析）
// 背景：HTTP 定位端点的进程内入口；核心判定保持纯函数，缓存与标注解析在此层叠加。
// 约束：快照为只读共享；缓存键采用 geohash(prec=8)。

// LocateResult：一次定位查询的结果；OK=false 表示点不在任何边界内（正常结果而非错误）
type LocateResult struct {
	FID  int    `json:"fid"`
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

type Locator struct {
	snap  *Snapshot
	cache *LRU
}

// NewLocator：构造定位编排器，缓存参数读取环境变量
func NewLocator(snap *Snapshot) *Locator {
	ttlSec := 600
	if s := os.Getenv("LOCATE_CACHE_TTL_S"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			ttlSec = n
		}
	}
	return &Locator{snap: snap, cache: NewLRU(4096, ttlSec)}
}

// Snapshot：底层快照（只读）
func (lc *Locator) Snapshot() *Snapshot { return lc.snap }

// CacheKey：定位查询的缓存键，进程内与 Redis 共用同一构造
func (lc *Locator) CacheKey(lon, lat float64) string {
	return EncodeGeohash(lat, lon, 8)
}

// Query：命中判定并解析营地名
// 返回：LocateResult；未命中时 OK=false 且字段为零值
func (lc *Locator) Query(lon, lat float64) LocateResult {
	if lc.snap == nil {
		return LocateResult{}
	}
	key := lc.CacheKey(lon, lat)
	if v, ok := lc.cache.Get(key); ok {
		return v
	}
	var out LocateResult
	if f := FindFeatureAt(lon, lat, lc.snap.Features); f != nil {
		out = LocateResult{FID: f.FID, Name: lc.snap.Labels[f.FID], OK: true}
	}
	lc.cache.Set(key, out)
	return out
}
