package simhci

import (
	"sync"

	"github.com/rigado/blecore/ble"
)

// memRegistry is the simplest possible hci.Registry: a mutex-guarded map.
// A real stack keeps this state alongside its own ATT bookkeeping; simhci
// has none, so a map is the whole thing.
type memRegistry struct {
	mu    sync.Mutex
	state map[ble.ConnHandle]interface{}
}

func newMemRegistry() *memRegistry {
	return &memRegistry{state: make(map[ble.ConnHandle]interface{})}
}

func (r *memRegistry) Get(handle ble.ConnHandle) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.state[handle]
	return v, ok
}

func (r *memRegistry) Put(handle ble.ConnHandle, state interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[handle] = state
	return true
}

func (r *memRegistry) Delete(handle ble.ConnHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, handle)
}
