package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginLimiter locks out an IP+username pair after too many failed logins
// inside a sliding window.
type LoginLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	window          time.Duration
	lockout         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

type LoginLimiterConfig struct {
	MaxAttempts     int
	Window          time.Duration
	Lockout         time.Duration
	CleanupInterval time.Duration // default 5m
}

// NewLoginLimiter returns nil when MaxAttempts <= 0, which disables limiting.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		return nil
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &LoginLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		window:          cfg.Window,
		lockout:         cfg.Lockout,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
		stop:            make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (l *LoginLimiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stop) })
}

func limiterKey(ip, username string) string {
	return ip + ":" + username
}

// Allow reports whether another attempt is permitted and, if not, how long
// the caller has to wait.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[limiterKey(ip, username)]
	if !ok {
		return true, 0
	}
	if !rec.lockedUntil.IsZero() && now.Before(rec.lockedUntil) {
		return false, rec.lockedUntil.Sub(now)
	}
	if now.Sub(rec.firstAttempt) > l.window {
		return true, 0
	}
	if rec.count < l.maxAttempts {
		return true, 0
	}
	return false, l.lockout
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (l *LoginLimiter) RecordFailure(ip, username string) bool {
	now := l.now()
	key := limiterKey(ip, username)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[key]
	if !ok {
		rec = &attemptRecord{firstAttempt: now}
		l.attempts[key] = rec
	}
	if now.Sub(rec.firstAttempt) > l.window {
		rec.count = 0
		rec.firstAttempt = now
		rec.lockedUntil = time.Time{}
	}

	rec.count++
	if rec.count >= l.maxAttempts {
		rec.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

func (l *LoginLimiter) RecordSuccess(ip, username string) {
	l.mu.Lock()
	delete(l.attempts, limiterKey(ip, username))
	l.mu.Unlock()
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *LoginLimiter) cleanup() {
	now := l.now()
	expiry := l.window + l.lockout

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, rec := range l.attempts {
		windowExpired := now.Sub(rec.firstAttempt) > expiry
		lockoutExpired := rec.lockedUntil.IsZero() || now.After(rec.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(l.attempts, key)
		}
	}
}

// Middleware rejects locked-out login attempts with 429 before any password
// check runs.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.ClientIP(), loginCredentials(c).Username)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.Round(time.Second).String(),
			})
			return
		}
		c.Next()
	}
}

// retryAfterSeconds renders a wait as Retry-After delta-seconds, never below 1.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
