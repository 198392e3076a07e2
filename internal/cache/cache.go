package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// keySep 键形如 caseID::op::params，按案件前缀整体失效
const keySep = "::"

// ResultCache 缓存分析接口的序列化响应。
// LRU + TTL 有界；任何一次成功入库都会在响应返回前
// 主动失效该案件的全部条目，保证后续读取一定是新数据。
type ResultCache struct {
	lru *expirable.LRU[string, []byte]
}

// New creates a cache with the given capacity and entry TTL.
func New(size int, ttl time.Duration) *ResultCache {
	if size <= 0 {
		size = 256
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Key builds a cache key from case id, operation name and parameters.
func Key(caseID, op string, params ...string) string {
	parts := append([]string{caseID, op}, params...)
	return strings.Join(parts, keySep)
}

func (c *ResultCache) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *ResultCache) Set(key string, value []byte) {
	c.lru.Add(key, value)
}

// InvalidateCase 删除某案件的全部缓存条目（不是等它过期）
func (c *ResultCache) InvalidateCase(caseID string) {
	prefix := caseID + keySep
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

// Len returns the number of live entries (tests).
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
