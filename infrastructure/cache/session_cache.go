package cache

import (
	"sync"

	"stocktaker/models"
)

// OperatorSessionCache stores sessions by token. Cached entries carry the
// opened API key so the database seal is only opened once per login.
type OperatorSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewOperatorSessionCache() *OperatorSessionCache {
	return &OperatorSessionCache{sessions: make(map[string]models.Session)}
}

func (c *OperatorSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

func (c *OperatorSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[token]
	return s, ok
}

func (c *OperatorSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}
