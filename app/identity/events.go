package identity

import (
	"sync"

	"contenthub/app/models"
)

// Change describes one identity transition. SignedIn is false when
// Identity has just signed out.
type Change struct {
	Identity *models.Identity
	SignedIn bool
}

// Events fans identity changes out to subscribers.
type Events struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Change)
}

func NewEvents() *Events {
	return &Events{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns the func that releases it.
func (e *Events) Subscribe(fn func(Change)) (release func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// Emit delivers c to every subscriber in the calling goroutine.
func (e *Events) Emit(c Change) {
	e.mu.RLock()
	fns := make([]func(Change), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
