package service

import (
	"encoding/json"
	"strconv"
	"time"
)

// 瞬间生命周期策略。纯函数，不碰存储。
const (
	// MomentTTL 瞬间可见窗口，固定 24 小时，不支持按条配置
	MomentTTL = 24 * time.Hour

	// DefaultDurationMs 播放时长缺省值（毫秒）
	DefaultDurationMs int64 = 5000

	// MaxDurationMs 播放时长上限（毫秒），防止播放器停在一条上不动
	MaxDurationMs int64 = 50000
)

// ComputeExpiry 计算到期时间：固定 createdAt + 24h
func ComputeExpiry(createdAt time.Time) time.Time {
	return createdAt.Add(MomentTTL)
}

// ClampDuration 钳制播放时长：<=0 取缺省 5000，超出上限截到 50000。
// 结果永远落在 [1, 50000]，播放器既不会卡死也不会瞬跳。
func ClampDuration(requestedMs int64) int64 {
	if requestedMs <= 0 {
		return DefaultDurationMs
	}
	if requestedMs > MaxDurationMs {
		return MaxDurationMs
	}
	return requestedMs
}

// ClampDurationValue 宽松版钳制：请求体里的 durationMs 可能缺失、
// 是字符串或非数字，这些情况一律按缺省值处理，不报错。
func ClampDurationValue(v any) int64 {
	switch x := v.(type) {
	case nil:
		return DefaultDurationMs
	case float64:
		return ClampDuration(int64(x))
	case int64:
		return ClampDuration(x)
	case int:
		return ClampDuration(int64(x))
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			if f, ferr := x.Float64(); ferr == nil {
				return ClampDuration(int64(f))
			}
			return DefaultDurationMs
		}
		return ClampDuration(n)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return DefaultDurationMs
		}
		return ClampDuration(n)
	}
	return DefaultDurationMs
}
