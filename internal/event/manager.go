package event

import (
	"go.uber.org/zap"
	"sync"
)

type Manager struct {
	mu        sync.RWMutex
	listeners []*Listener
	wg        sync.WaitGroup
	closed    bool
}

type Listener struct {
	eventType Type
	channel   chan interface{}
}

func NewManager() *Manager {
	return &Manager{listeners: make([]*Listener, 0)}
}

func (m *Manager) AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := Listener{
		eventType: eventType,
		channel:   make(chan interface{}, 64),
	}

	m.mu.Lock()
	m.listeners = append(m.listeners, &listener)
	m.mu.Unlock()

	go func() {
		for msg := range listener.channel {
			callback(msg)
			m.wg.Done()
		}
	}()
}

// EmitEvent delivers msg to every listener registered for eventType. Each
// listener receives messages in emission order.
func (m *Manager) EmitEvent(eventType Type, msg interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}
	if len(m.listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range m.listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			m.wg.Add(1)
			listener.channel <- msg
		}
	}
}

// Wait blocks until every emitted message has been handled.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, listener := range m.listeners {
		close(listener.channel)
	}
}
