package simhci

import (
	"fmt"
	"sync"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
)

// inMemoryBonds is a throwaway hci.BondManager for tests and demo runs
// that don't care about bonds outliving the process; package bond's
// Store is the persistent implementation.
type inMemoryBonds struct {
	mu    sync.Mutex
	bonds map[string]hci.BondInfo
}

func newInMemoryBonds() *inMemoryBonds {
	return &inMemoryBonds{bonds: make(map[string]hci.BondInfo)}
}

func (b *inMemoryBonds) Find(addr ble.Addr) (hci.BondInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bi, ok := b.bonds[addr.String()]
	if !ok {
		return nil, fmt.Errorf("simhci: no bond for %s", addr)
	}
	return bi, nil
}

func (b *inMemoryBonds) Save(addr ble.Addr, info hci.BondInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bonds[addr.String()] = info
	return nil
}

func (b *inMemoryBonds) Delete(addr ble.Addr) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bonds, addr.String())
	return nil
}
