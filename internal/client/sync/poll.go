package sync

import (
	"context"
	"time"
)

// startPollingLocked begins observing the hosted share for changes while it
// is viewed read-only. Callers hold c.mu.
func (c *Controller) startPollingLocked() {
	if c.pollStop != nil || c.pollInterval <= 0 {
		return
	}
	stop := make(chan struct{})
	c.pollStop = stop
	go c.pollLoop(stop)
}

func (c *Controller) stopPollingLocked() {
	if c.pollStop != nil {
		close(c.pollStop)
		c.pollStop = nil
	}
}

func (c *Controller) pollLoop(stop chan struct{}) {
	t := time.NewTicker(c.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !c.beginPoll() {
				continue
			}
			c.pollOnce(context.Background())
			c.endPoll()
		}
	}
}

// beginPoll claims the in-flight slot. A poll still running suppresses the
// new tick instead of queueing it.
func (c *Controller) beginPoll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollInFlight {
		return false
	}
	c.pollInFlight = true
	return true
}

func (c *Controller) endPoll() {
	c.mu.Lock()
	c.pollInFlight = false
	c.mu.Unlock()
}

// pollOnce checks the share's freshness timestamp and, on change, fetches
// the full document and replaces the local materialization atomically.
func (c *Controller) pollOnce(ctx context.Context) {
	c.mu.Lock()
	id, password, last := c.shareID, c.password, c.lastSeen
	c.mu.Unlock()
	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	meta, err := c.remote.FetchMeta(ctx, id, password)
	if err != nil {
		return
	}
	if !meta.UpdatedAt.After(last) {
		return
	}

	doc, err := c.remote.Fetch(ctx, id, password)
	if err != nil {
		return
	}

	c.mu.Lock()
	// The session may have moved on while the request was in flight;
	// a superseded response is ignored.
	if c.shareID != id || c.editable || c.origin != OriginRemote {
		c.mu.Unlock()
		return
	}
	c.materializeRemoteLocked(doc)
	c.mu.Unlock()
	c.signal()
}
