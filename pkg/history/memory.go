package history

import "sync"

// Memory is an in-process History backed by a slice of entries. It
// serves tests, non-browser hosts, and the bridge server's per-session
// mirror. Listeners are notified synchronously on every change.
type Memory struct {
	mu        sync.Mutex
	entries   []Location
	index     int
	listeners map[int]func()
	nextID    int
}

// NewMemory creates a Memory history with a single initial entry.
// An empty initial path defaults to "/".
func NewMemory(initial string) *Memory {
	return &Memory{
		entries:   []Location{ParseLocation(initial)},
		listeners: make(map[int]func()),
	}
}

// Location returns the current entry.
func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Push truncates any forward entries, appends the new location and
// makes it current.
func (m *Memory) Push(path string) {
	m.mu.Lock()
	m.entries = append(m.entries[:m.index+1], ParseLocation(path))
	m.index = len(m.entries) - 1
	fns := m.snapshotLocked()
	m.mu.Unlock()

	notify(fns)
}

// Replace swaps the current entry in place.
func (m *Memory) Replace(path string) {
	m.mu.Lock()
	m.entries[m.index] = ParseLocation(path)
	fns := m.snapshotLocked()
	m.mu.Unlock()

	notify(fns)
}

// Back moves one entry back. At the oldest entry it is a no-op and
// listeners are not notified.
func (m *Memory) Back() {
	m.mu.Lock()
	if m.index == 0 {
		m.mu.Unlock()
		return
	}
	m.index--
	fns := m.snapshotLocked()
	m.mu.Unlock()

	notify(fns)
}

// Forward moves one entry forward. At the newest entry it is a no-op
// and listeners are not notified.
func (m *Memory) Forward() {
	m.mu.Lock()
	if m.index == len(m.entries)-1 {
		m.mu.Unlock()
		return
	}
	m.index++
	fns := m.snapshotLocked()
	m.mu.Unlock()

	notify(fns)
}

// TraverseTo moves to the existing entry matching path, the way a
// browser's back and forward buttons land on entries that are already
// in the stack. The nearest match wins, with the backward direction
// preferred on a tie since that is the common gesture. When no entry
// matches, the current entry is replaced so the history converges on
// what the caller reports. Listeners are notified either way.
func (m *Memory) TraverseTo(path string) {
	loc := ParseLocation(path)

	m.mu.Lock()
	found := -1
	for d := 1; d < len(m.entries); d++ {
		if i := m.index - d; i >= 0 && m.entries[i] == loc {
			found = i
			break
		}
		if i := m.index + d; i < len(m.entries) && m.entries[i] == loc {
			found = i
			break
		}
	}
	if found >= 0 {
		m.index = found
	} else {
		m.entries[m.index] = loc
	}
	fns := m.snapshotLocked()
	m.mu.Unlock()

	notify(fns)
}

// Listen registers fn to run after every location change.
func (m *Memory) Listen(fn func()) Listener {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return &memoryListener{m: m, id: id}
}

// Len returns the number of entries in the history stack.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Index returns the position of the current entry in the stack.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// snapshotLocked copies the listener set so callbacks run outside the
// lock. Callers must hold m.mu.
func (m *Memory) snapshotLocked() []func() {
	fns := make([]func(), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

type memoryListener struct {
	m    *Memory
	id   int
	once sync.Once
}

func (l *memoryListener) Close() {
	l.once.Do(func() {
		l.m.mu.Lock()
		delete(l.m.listeners, l.id)
		l.m.mu.Unlock()
	})
}
