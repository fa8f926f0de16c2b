package query

import (
	"context"
	"strconv"
	"sync"
)

// Coordinator enforces last-request-wins per owner, resource and project:
// beginning a new fetch cancels the one still running for the same slot.
type Coordinator struct {
	mu       sync.Mutex
	next     uint64
	inflight map[string]flight
}

type flight struct {
	seq    uint64
	key    string
	cancel context.CancelFunc
}

// Ticket tracks one coordinated fetch. Call Done when the fetch returns.
type Ticket struct {
	c      *Coordinator
	slot   string
	seq    uint64
	cancel context.CancelFunc
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{inflight: make(map[string]flight)}
}

func slotFor(owner string, resource Resource, projectID int64) string {
	return owner + "|" + string(resource) + "|" + strconv.FormatInt(projectID, 10)
}

// Begin registers q as the latest fetch of owner for its resource and returns
// a context that is cancelled if a newer fetch supersedes it.
func (c *Coordinator) Begin(ctx context.Context, owner string, q Query) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)
	slot := slotFor(owner, q.Resource, q.ProjectID)

	c.mu.Lock()
	if prev, ok := c.inflight[slot]; ok {
		prev.cancel()
	}
	c.next++
	seq := c.next
	c.inflight[slot] = flight{seq: seq, key: q.Key(), cancel: cancel}
	c.mu.Unlock()

	return ctx, &Ticket{c: c, slot: slot, seq: seq, cancel: cancel}
}

// Current reports whether the ticket is still the latest fetch for its slot.
func (t *Ticket) Current() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	f, ok := t.c.inflight[t.slot]
	return ok && f.seq == t.seq
}

// Done releases the ticket's context and slot.
func (t *Ticket) Done() {
	t.c.mu.Lock()
	if f, ok := t.c.inflight[t.slot]; ok && f.seq == t.seq {
		delete(t.c.inflight, t.slot)
	}
	t.c.mu.Unlock()
	t.cancel()
}

// InFlight returns the number of fetches currently registered.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// Pending returns the key of the fetch running for owner's resource in a
// project, if any.
func (c *Coordinator) Pending(owner string, resource Resource, projectID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.inflight[slotFor(owner, resource, projectID)]
	return f.key, ok
}
