package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store 短期键值存储，承载验证码、限流计数与鉴权快照
type Store interface {
	// Get 读取键值，键不存在时 found 为 false
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetNX 仅在键不存在时写入，返回是否写入成功
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// Incr 计数加一，首次写入时设置过期时间，返回当前计数与剩余有效期
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Del(ctx context.Context, keys ...string) error
}

// GetJSON 读取 JSON 值
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) (bool, error) {
	if store == nil {
		return false, nil
	}
	raw, found, err := store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 值
func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) error {
	if store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(payload), ttl)
}
