package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Limiter は固定ウィンドウ方式で呼び出し回数を制限します。
// ウィンドウ内の呼び出しが quota を超えると、ウィンドウ終了から 1 秒後まで呼び出し元を待機させ、
// 新しいウィンドウを開始します。
type Limiter struct {
	quota  int
	window time.Duration
	logger *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	started bool
	start   time.Time
	count   int
}

// Option は Limiter の挙動を差し替えます。
type Option func(*Limiter)

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSleeper は待機処理を差し替えます。
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) { l.sleep = sleep }
}

// New は Limiter を生成します。logger が nil の場合はログを出力しません。
func New(quota int, window time.Duration, logger *zap.Logger, opts ...Option) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Limiter{
		quota:  quota,
		window: window,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait は呼び出しを 1 回分計上し、上限を超えていれば待機します。
// 待機中に ctx がキャンセルされた場合はそのエラーを返し、カウンタは変更しません。
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.started {
		l.started = true
		l.start = now
		l.count = 1
		l.logger.Debug("rate limit window started", zap.Time("timestamp", now))
		return nil
	}

	count := l.count + 1
	elapsed := now.Sub(l.start)
	l.logger.Debug("rate limit check",
		zap.Int("request_count", count),
		zap.Duration("elapsed", elapsed),
	)

	if count <= l.quota {
		l.count = count
		return nil
	}

	if delay := l.window - elapsed + time.Second; delay > 0 {
		l.logger.Debug("rate limit exceeded, sleeping", zap.Duration("delay", delay))
		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
	}
	l.start = l.now()
	l.count = 1
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
