package geo

import (
	"container/list"
	"sync"
	"time"
)

// 文档注释：定位结果的本地 LRU 缓存（geohash 为键）
// 背景：悬停时同一网格坐标在短周期内重复查询，进程内缓存可避免重复全量遍历；TTL 可调。
// 约束：键由调用方构造，建议 EncodeGeohash(prec=8)；容量溢出按最久未用淘汰。
type LRU struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
}

type lruEntry struct {
	k   string
	v   LocateResult
	exp time.Time
}

func NewLRU(capacity int, ttlSec int) *LRU {
	return &LRU{
		cap:  capacity,
		ttl:  time.Duration(ttlSec) * time.Second,
		lst:  list.New(),
		dict: make(map[string]*list.Element),
	}
}

func (c *LRU) Get(k string) (LocateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		it := e.Value.(lruEntry)
		if time.Now().Before(it.exp) {
			c.lst.MoveToFront(e)
			return it.v, true
		}
		c.lst.Remove(e)
		delete(c.dict, k)
	}
	return LocateResult{}, false
}

func (c *LRU) Set(k string, v LocateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		e.Value = lruEntry{k: k, v: v, exp: time.Now().Add(c.ttl)}
		c.lst.MoveToFront(e)
		return
	}
	e := c.lst.PushFront(lruEntry{k: k, v: v, exp: time.Now().Add(c.ttl)})
	c.dict[k] = e
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back != nil {
			it := back.Value.(lruEntry)
			delete(c.dict, it.k)
			c.lst.Remove(back)
		}
	}
}
