package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter provides fixed-window request rate limiting per client IP.
type RateLimiter struct {
	requests    map[string]*rateLimitEntry
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests:    make(map[string]*rateLimitEntry),
		maxRequests: maxRequests,
		window:      window,
		done:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Middleware returns the rate limiting middleware. Static assets, health and metrics are not counted.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/static/") || path == "/health" || path == "/metrics" {
				return next(c)
			}

			if !rl.allow(c.RealIP(), time.Now()) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}

			return next(c)
		}
	}
}

func (rl *RateLimiter) allow(clientID string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.requests[clientID]
	if !exists || now.After(entry.expiresAt) {
		rl.requests[clientID] = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(rl.window),
		}
		return true
	}

	if entry.count >= rl.maxRequests {
		return false
	}

	entry.count++
	return true
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.requests {
				if now.After(entry.expiresAt) {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// LoginRateLimiter locks out an identifier after repeated failed sign-ins.
type LoginRateLimiter struct {
	attempts    map[string]*loginAttempt
	mu          sync.Mutex
	maxAttempts int
	lockoutTime time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

type loginAttempt struct {
	count    int
	lockedAt time.Time
	lastTry  time.Time
}

// NewLoginRateLimiter creates a rate limiter for login attempts.
func NewLoginRateLimiter(maxAttempts int, lockoutTime time.Duration) *LoginRateLimiter {
	lrl := &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		maxAttempts: maxAttempts,
		lockoutTime: lockoutTime,
		done:        make(chan struct{}),
	}

	go lrl.cleanup()

	return lrl
}

// Check reports whether a login attempt is allowed and, if not, how long the lockout lasts.
func (lrl *LoginRateLimiter) Check(identifier string) (bool, time.Duration) {
	lrl.mu.Lock()
	defer lrl.mu.Unlock()

	attempt, exists := lrl.attempts[identifier]
	if !exists || attempt.lockedAt.IsZero() {
		return true, 0
	}

	remaining := time.Until(attempt.lockedAt.Add(lrl.lockoutTime))
	if remaining > 0 {
		return false, remaining
	}

	// Lockout expired
	delete(lrl.attempts, identifier)
	return true, 0
}

// RecordFailure records a failed login attempt.
func (lrl *LoginRateLimiter) RecordFailure(identifier string) {
	lrl.mu.Lock()
	defer lrl.mu.Unlock()

	now := time.Now()
	attempt, exists := lrl.attempts[identifier]
	if !exists {
		attempt = &loginAttempt{}
		lrl.attempts[identifier] = attempt
	}

	attempt.count++
	attempt.lastTry = now
	if attempt.count >= lrl.maxAttempts {
		attempt.lockedAt = now
	}
}

// RecordSuccess clears failed attempts after a successful login.
func (lrl *LoginRateLimiter) RecordSuccess(identifier string) {
	lrl.mu.Lock()
	defer lrl.mu.Unlock()

	delete(lrl.attempts, identifier)
}

// Stop ends the background cleanup.
func (lrl *LoginRateLimiter) Stop() {
	lrl.stopOnce.Do(func() { close(lrl.done) })
}

func (lrl *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(lrl.lockoutTime)
	defer ticker.Stop()

	for {
		select {
		case <-lrl.done:
			return
		case now := <-ticker.C:
			lrl.mu.Lock()
			for key, attempt := range lrl.attempts {
				if now.Sub(attempt.lastTry) > lrl.lockoutTime*2 {
					delete(lrl.attempts, key)
				}
			}
			lrl.mu.Unlock()
		}
	}
}
