package explain

import (
	"context"
	"strings"
	"sync"
)

// SessionCache memoizes explanations per interactive session. Once a disease
// name has been resolved within a session the stored value is reused verbatim
// (a stored nil included) and never recomputed, even if later calls carry
// different symptoms or causes. Nothing is persisted across processes.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*string
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		sessions: make(map[string]map[string]*string),
	}
}

// Resolve returns the cached explanation for the session/disease pair,
// resolving it through the enricher on first sight.
func (c *SessionCache) Resolve(ctx context.Context, sessionID string, e *Enricher, diseaseName string, symptoms, causes []string) *string {
	key := strings.ToLower(strings.TrimSpace(diseaseName))

	c.mu.RLock()
	if cached, ok := c.sessions[sessionID]; ok {
		if text, seen := cached[key]; seen {
			c.mu.RUnlock()
			return text
		}
	}
	c.mu.RUnlock()

	text := e.Explain(ctx, diseaseName, symptoms, causes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sessions[sessionID]; !ok {
		c.sessions[sessionID] = make(map[string]*string)
	}
	// Another goroutine may have resolved it meanwhile; first write wins so
	// the session keeps seeing one value.
	if existing, seen := c.sessions[sessionID][key]; seen {
		return existing
	}
	c.sessions[sessionID][key] = text
	return text
}

// Drop forgets a session's cache entirely.
func (c *SessionCache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}
