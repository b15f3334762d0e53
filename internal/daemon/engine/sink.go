package engine

import "sync"

// Sink is the presentation layer the engine drives.
// Implementations must be idempotent and must not block.
type Sink interface {
	Show()
	Hide()
	Visible() bool
}

// MemorySink is the headless sink: it only remembers the flag.
type MemorySink struct {
	mu      sync.Mutex
	visible bool
	shows   int
	hides   int
}

// NewMemorySink returns a hidden MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = true
	m.shows++
}

func (m *MemorySink) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	m.hides++
}

func (m *MemorySink) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Calls returns how many times Show and Hide have been invoked.
func (m *MemorySink) Calls() (shows, hides int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows, m.hides
}
