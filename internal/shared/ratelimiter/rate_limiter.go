package ratelimiter

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultLimitPerMinute は言語モデル呼び出しの既定の上限（回/分）です。
	DefaultLimitPerMinute = 30
	// EnvKeyLimitPerMinute は上限を上書きする環境変数名です。
	EnvKeyLimitPerMinute = "RATE_LIMIT_RPM"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// ginハンドラーから並行に呼ばれるため、内部状態はmuで保護します。
type RateLimiter struct {
	limit    int           // 1分あたりの上限
	interval time.Duration // どの単位でリセットするか

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// NewRateLimiterFromEnv はRATE_LIMIT_RPMを読み取り、1分窓のRateLimiterを生成します。
// 未設定または不正な値の場合はDefaultLimitPerMinuteを使います。
func NewRateLimiterFromEnv() *RateLimiter {
	limit := DefaultLimitPerMinute
	if v := os.Getenv(EnvKeyLimitPerMinute); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return NewRateLimiter(limit, time.Minute)
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 上限超過時はロックを保持したまま待機するため、後続の呼び出しも窓が明けるまで並びます。
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			log.Printf("[RATE LIMIT] hit %d calls, sleeping for %v...", rl.limit, sleep)
			time.Sleep(sleep)
		}
		// リセット
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
