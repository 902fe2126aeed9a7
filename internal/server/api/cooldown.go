package api

import (
	"sync"
	"time"
)

// CooldownManager enforces a per-(site, gesture) minimum interval between
// accepted evaluations. State is in-memory only; a service restart clears
// all cooldowns, which at most lets one extra action through.
type CooldownManager struct {
	mu   sync.Mutex
	last map[cooldownKey]time.Time
	now  func() time.Time
}

type cooldownKey struct {
	siteID  string
	gesture string
}

// NewCooldownManager creates an empty cooldown manager.
func NewCooldownManager() *CooldownManager {
	return &CooldownManager{
		last: make(map[cooldownKey]time.Time),
		now:  time.Now,
	}
}

// Allow reports whether the (site, gesture) pair is outside its cooldown
// window and, if so, marks it as just fired.
func (c *CooldownManager) Allow(siteID, gesture string, cooldown time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cooldownKey{siteID: siteID, gesture: gesture}
	now := c.now()

	if last, ok := c.last[key]; ok && now.Sub(last) < cooldown {
		return false
	}
	c.last[key] = now
	return true
}
