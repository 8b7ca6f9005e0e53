package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
)

// BookCache 图书详情缓存
// 设计说明:
// 1. 只缓存单本图书实体(详情页读多写少),评论列表每次实时查询
// 2. 编辑、删除、批量上下架后由应用层调用Delete使缓存失效
//    Delete同时写入短期失效标记,标记存在期间Set不回填,避免并发读把旧数据写回缓存
// 3. 统计数据不缓存,每次请求重新计算
// 4. 可选熔断器:Redis连续失败后读写直接返回ErrOpenState,由应用层降级读库
type BookCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewBookCache 创建图书详情缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// WithBreaker 为Get/Set加上熔断保护;Delete始终直接执行,尽量保证失效
func (c *BookCache) WithBreaker(cb *circuitbreaker.CircuitBreaker) *BookCache {
	c.breaker = cb
	return c
}

func (c *BookCache) guard(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}

// invalidationWindow 失效标记的存活时间,需大于一次详情查库的耗时
const invalidationWindow = 10 * time.Second

// setUnlessInvalidated 失效标记存在时放弃回填
var setUnlessInvalidated = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

func bookKey(id uint) string {
	return fmt.Sprintf("%sbook:%d", keyPrefix, id)
}

func invalidatedKey(id uint) string {
	return fmt.Sprintf("%sbook:%d:invalidated", keyPrefix, id)
}

// Get 读取缓存;未命中返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	var val []byte
	err := c.guard(func() error {
		v, err := c.client.Get(ctx, bookKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil // 未命中不算失败
		}
		val = v
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}
	if val == nil {
		return nil, nil
	}

	var b book.Book
	if err := json.Unmarshal(val, &b); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}
	return &b, nil
}

// Set 写入缓存;图书刚被失效时跳过
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	err = c.guard(func() error {
		keys := []string{bookKey(b.ID), invalidatedKey(b.ID)}
		return setUnlessInvalidated.Run(ctx, c.client, keys, val, c.ttl.Milliseconds()).Err()
	})
	if err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// Delete 删除一本或多本图书的缓存
func (c *BookCache) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bookKey(id)
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, id := range ids {
			pipe.Set(ctx, invalidatedKey(id), 1, invalidationWindow)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}
