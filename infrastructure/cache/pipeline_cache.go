package cache

import (
	"sync"

	"stocktaker/infrastructure/scanqueue"
)

// Pipeline bundles the per-session scan machinery: the ordered sequencer and
// the camera frame filter feeding it.
type Pipeline struct {
	Sequencer *scanqueue.Sequencer
	Frames    *scanqueue.FrameFilter
}

// ScanPipelineCache holds one live pipeline per session token. Pipelines own
// a worker goroutine, so removal closes them.
type ScanPipelineCache struct {
	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

func NewScanPipelineCache() *ScanPipelineCache {
	return &ScanPipelineCache{pipelines: make(map[string]*Pipeline)}
}

func (c *ScanPipelineCache) Get(token string) (*Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pipelines[token]
	return p, ok
}

// GetOrCreate returns the session's pipeline, building it under the lock so
// concurrent requests for the same session share one sequencer.
func (c *ScanPipelineCache) GetOrCreate(token string, build func() *Pipeline) *Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pipelines[token]; ok {
		return p
	}
	p := build()
	c.pipelines[token] = p
	return p
}

func (c *ScanPipelineCache) Delete(token string) {
	c.mu.Lock()
	p, ok := c.pipelines[token]
	delete(c.pipelines, token)
	c.mu.Unlock()
	if ok {
		p.Sequencer.Close()
	}
}

// CloseAll shuts every pipeline down, used on server stop.
func (c *ScanPipelineCache) CloseAll() {
	c.mu.Lock()
	pipelines := c.pipelines
	c.pipelines = make(map[string]*Pipeline)
	c.mu.Unlock()
	for _, p := range pipelines {
		p.Sequencer.Close()
	}
}
