package simhci

import (
	"sync"

	"github.com/rigado/blecore/ble"
)

// AutoPrompt is a scripted hci.UserPrompt for tests and the demo CLI: it
// records the displayed numeric comparison code and answers
// ConfirmPairing with a fixed decision instead of waiting on a human.
type AutoPrompt struct {
	Accept bool

	mu         sync.Mutex
	lastCode   uint32
	storeCalls int
	storedLTK  map[string][]byte
}

// NewAutoPrompt returns a prompt that accepts every numeric comparison.
func NewAutoPrompt() *AutoPrompt {
	return &AutoPrompt{Accept: true, storedLTK: make(map[string][]byte)}
}

func (p *AutoPrompt) DisplayCode(handle ble.ConnHandle, code uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastCode = code
}

func (p *AutoPrompt) ConfirmPairing(handle ble.ConnHandle) bool {
	return p.Accept
}

func (p *AutoPrompt) StoreLTK(addr ble.Addr, ltk []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(ltk))
	copy(cp, ltk)
	p.storedLTK[addr.String()] = cp
	p.storeCalls++
}

// StoreLTKCalls returns how many times StoreLTK has been called.
func (p *AutoPrompt) StoreLTKCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.storeCalls
}

// LastCode returns the most recently displayed numeric comparison code.
func (p *AutoPrompt) LastCode() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCode
}

// LTKFor returns the LTK stored for addr, if any.
func (p *AutoPrompt) LTKFor(addr ble.Addr) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ltk, ok := p.storedLTK[addr.String()]
	return ltk, ok
}
