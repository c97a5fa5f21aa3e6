package snapshot

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var subscriptionIDCounter uint64

// Subscription receives an Update every time the store's snapshot changes.
type Subscription struct {
	id     string
	ch     chan Update
	closed atomic.Bool
}

func newSubscription(bufferSize int) *Subscription {
	id := atomic.AddUint64(&subscriptionIDCounter, 1)
	return &Subscription{
		id: "sub-" + strconv.FormatUint(id, 10),
		ch: make(chan Update, bufferSize),
	}
}

// ID returns the subscription ID
func (s *Subscription) ID() string {
	return s.id
}

// Channel returns the channel for receiving updates
func (s *Subscription) Channel() <-chan Update {
	return s.ch
}

// Send delivers u without blocking. It returns false when the subscription is
// closed or its buffer is full.
func (s *Subscription) Send(u Update) bool {
	if s.closed.Load() {
		return false
	}

	select {
	case s.ch <- u:
		return true
	default:
		logrus.WithField("subscription", s.id).Debug("dropped snapshot update, channel full")
		return false
	}
}

// Close closes the subscription
func (s *Subscription) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.ch)
	}
}

// subscriptionManager fans updates out to subscribers.
type subscriptionManager struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	bufferSize    int
}

func newSubscriptionManager(bufferSize int) *subscriptionManager {
	return &subscriptionManager{
		subscriptions: make(map[string]*Subscription),
		bufferSize:    bufferSize,
	}
}

func (m *subscriptionManager) subscribe() *Subscription {
	sub := newSubscription(m.bufferSize)

	m.mu.Lock()
	m.subscriptions[sub.id] = sub
	m.mu.Unlock()

	return sub
}

func (m *subscriptionManager) unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[id]
	if ok {
		delete(m.subscriptions, id)
	}
	m.mu.Unlock()

	if ok {
		sub.Close()
	}
}

func (m *subscriptionManager) broadcast(u Update) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		sub.Send(u)
	}
}

func (m *subscriptionManager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

func (m *subscriptionManager) close() {
	m.mu.Lock()
	subs := make([]*Subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.subscriptions = make(map[string]*Subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
