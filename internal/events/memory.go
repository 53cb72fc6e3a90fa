package events

import (
	"context"
	"sync"
)

// MemoryPublisher records events in memory. Used in tests and as the sink
// when no Kafka brokers are configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []ApplicationEvent
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event ApplicationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []ApplicationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ApplicationEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MemoryPublisher) Close() {}
