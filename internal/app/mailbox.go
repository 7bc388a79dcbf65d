package app

import "sync"

// mailboxes fans pairs out to subscribers. Each subscriber owns a one-slot
// channel; a newer pair replaces an unread one, so publishing never blocks.
type mailboxes struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Pair
	closed bool
}

func newMailboxes() *mailboxes {
	return &mailboxes{subs: make(map[int]chan Pair)}
}

// subscribe registers a consumer. The returned func unregisters it and
// closes its channel. Subscribing after close yields a closed channel.
func (m *mailboxes) subscribe() (<-chan Pair, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Pair, 1)
	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.next
	m.next++
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

// publish delivers p to every subscriber, replacing any pending pair.
func (m *mailboxes) publish(p Pair) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- p:
			continue
		default:
		}
		// Slot full: drop the stale pair, then deliver.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
}

func (m *mailboxes) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// close closes every subscriber channel; later publishes are dropped.
func (m *mailboxes) close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}
