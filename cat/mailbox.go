package cat

import (
	"context"
	"sync"
)

// mailbox is an unbounded queue of actions that are executed one after another by a single goroutine.
// Posting never blocks, so collaborators may post from within their own event loops.
type mailbox struct {
	mu      sync.Mutex
	actions []func()
	signal  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{
		signal: make(chan struct{}, 1),
	}
}

func (m *mailbox) Post(action func()) {
	m.mu.Lock()
	m.actions = append(m.actions, action)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := m.actions
	m.actions = nil
	return result
}

// Run executes the posted actions in order until the context is done.
func (m *mailbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.signal:
			for _, action := range m.take() {
				if ctx.Err() != nil {
					return
				}
				action()
			}
		}
	}
}
