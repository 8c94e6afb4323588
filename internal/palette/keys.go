package palette

import "sync"

// Key is a palette-relevant key press, already translated from whatever
// the host's input system delivers.
type Key int

const (
	KeyNone Key = iota
	KeyOpen // ctrl+k / cmd+k
	KeyEscape
	KeyUp
	KeyDown
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyOpen:
		return "open"
	case KeyEscape:
		return "escape"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	default:
		return "none"
	}
}

// KeyListener handles a key and reports whether it consumed it.
type KeyListener func(Key) bool

// KeySource is a process-wide key event source listeners attach to for the
// lifetime of their mount.
type KeySource interface {
	Subscribe(l KeyListener) (unsubscribe func())
}

// KeyHub is a synchronous KeySource. Dispatch offers a key to listeners in
// subscription order and stops at the first one that consumes it.
type KeyHub struct {
	mu        sync.RWMutex
	nextID    int
	listeners []hubListener
}

type hubListener struct {
	id int
	fn KeyListener
}

func NewKeyHub() *KeyHub {
	return &KeyHub{}
}

func (h *KeyHub) Subscribe(l KeyListener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, hubListener{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, hl := range h.listeners {
				if hl.id == id {
					h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (h *KeyHub) Dispatch(k Key) bool {
	if k == KeyNone {
		return false
	}

	h.mu.RLock()
	listeners := make([]hubListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.RUnlock()

	for _, hl := range listeners {
		if hl.fn(k) {
			return true
		}
	}
	return false
}

// Len returns the number of attached listeners.
func (h *KeyHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
