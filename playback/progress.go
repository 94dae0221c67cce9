package playback

import "time"

// Progress 进度条比例：把已播放时间线性映射到 [0, 1]。
// 纯展示用途，与推进定时器解耦；total 非法时直接返回 1。
func Progress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return 1
	}
	return float64(elapsed) / float64(total)
}
