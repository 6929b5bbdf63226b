package detector

import (
	"sync"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
)

// Cache is the process-wide holder for the detector client. The backend
// session is expensive to establish, so the client is built lazily on first
// use and reused for every subsequent request: concurrent first callers
// converge on a single instance, later callers read it without locking.
//
// Callers receive the cache by injection; there is no package-level handle.
type Cache struct {
	config *configs.DetectorConfig
	logger *utils.Logger

	once   sync.Once
	client *Client
}

func NewCache(config *configs.DetectorConfig, logger *utils.Logger) *Cache {
	return &Cache{
		config: config,
		logger: logger,
	}
}

// Get returns the shared client, constructing it at most once per process.
func (c *Cache) Get() *Client {
	c.once.Do(func() {
		c.client = NewClient(c.config, c.logger)
		c.logger.Info("detector client initialized (cached)", map[string]interface{}{
			"base_url": c.client.BaseURL(),
		})
	})
	return c.client
}
