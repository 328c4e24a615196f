package geo

import (
	"testing"
	"time"
)

func TestLRUBasics(t *testing.T) {
	c := NewLRU(2, 60)
	c.Set("a", LocateResult{FID: 1, OK: true})
	c.Set("b", LocateResult{FID: 2, OK: true})
	if v, ok := c.Get("a"); !ok || v.FID != 1 {
		t.Fatalf("get a = %+v %v", v, ok)
	}
	// 插入第三项应淘汰最久未用的 b（a 刚被访问过）
	c.Set("c", LocateResult{FID: 3, OK: true})
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	// 覆盖写不增加容量占用
	c.Set("a", LocateResult{FID: 9, OK: true})
	if v, _ := c.Get("a"); v.FID != 9 {
		t.Errorf("overwrite lost: %+v", v)
	}
}

func TestLocatorQuery(t *testing.T) {
	snap := &Snapshot{
		Features: testFeatures(),
		Labels:   map[int]string{1: "Camp Ephemera", 2: "Dust Bowl"},
		BuiltAt:  time.Now(),
	}
	lc := NewLocator(snap)

	hit := lc.Query(-119.22, 40.782)
	if !hit.OK || hit.FID != 1 || hit.Name != "Camp Ephemera" {
		t.Fatalf("hit = %+v", hit)
	}
	// 第二次走缓存，结果必须一致
	if again := lc.Query(-119.22, 40.782); again != hit {
		t.Errorf("cached result differs: %+v vs %+v", again, hit)
	}

	miss := lc.Query(0, 0)
	if miss.OK || miss.FID != 0 || miss.Name != "" {
		t.Errorf("miss = %+v, want zero value", miss)
	}
}

func TestEncodeGeohashStable(t *testing.T) {
	a := EncodeGeohash(40.782, -119.22, 8)
	b := EncodeGeohash(40.782, -119.22, 8)
	if a != b || len(a) != 8 {
		t.Fatalf("geohash unstable or wrong length: %q %q", a, b)
	}
	// 相距数公里的点不应折叠到同一键
	far := EncodeGeohash(40.9, -119.0, 8)
	if a == far {
		t.Error("distant points share a cache key")
	}
}
