// Package bond persists long-term-key bonding records to a JSON file:
// a jsoniter-backed load/store-whole-file pattern, keyed by address.
package bond

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
)

// record is the on-disk shape of one bond. Keys are hex-encoded since
// jsoniter marshals [N]byte/[]byte as base64 arrays otherwise, and hex
// keeps the file readable for debugging.
type record struct {
	AddrType uint8  `json:"addrType"`
	LongTermKey string `json:"longTermKey"`
	PeerIRK     string `json:"peerIrk"`
}

type bondInfo struct {
	addr ble.Addr
	ltk  []byte
	irk  []byte
}

func (b *bondInfo) LongTermKey() []byte   { return b.ltk }
func (b *bondInfo) PeerAddress() ble.Addr { return b.addr }
func (b *bondInfo) PeerIRK() []byte       { return b.irk }

// Store is a file-backed hci.BondManager: a single JSON file holding the
// whole table, guarded by one RWMutex and re-read/re-written wholesale
// on each write.
type Store struct {
	filename string
	lock     sync.RWMutex
}

// NewStore opens (without yet reading) a bond store backed by filename.
// The file is created lazily on the first Save or Delete.
func NewStore(filename string) *Store {
	return &Store{filename: filename}
}

func (s *Store) Find(addr ble.Addr) (hci.BondInfo, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return nil, err
	}

	rec, ok := bonds[addr.String()]
	if !ok {
		return nil, fmt.Errorf("bond: no bond found for %s", addr)
	}

	ltk, err := hex.DecodeString(rec.LongTermKey)
	if err != nil {
		return nil, fmt.Errorf("bond: invalid long term key for %s: %w", addr, err)
	}
	irk, err := hex.DecodeString(rec.PeerIRK)
	if err != nil {
		return nil, fmt.Errorf("bond: invalid peer irk for %s: %w", addr, err)
	}

	return &bondInfo{addr: addr, ltk: ltk, irk: irk}, nil
}

func (s *Store) Save(addr ble.Addr, info hci.BondInfo) error {
	if info == nil {
		return fmt.Errorf("bond: empty bond information")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return err
	}

	bonds[addr.String()] = record{
		AddrType:    uint8(addr.Type),
		LongTermKey: hex.EncodeToString(info.LongTermKey()),
		PeerIRK:     hex.EncodeToString(info.PeerIRK()),
	}

	return s.storeCache(bonds)
}

func (s *Store) Delete(addr ble.Addr) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return err
	}

	delete(bonds, addr.String())
	return s.storeCache(bonds)
}

func (s *Store) loadExisting() (map[string]record, error) {
	_, err := os.Stat(s.filename)
	if os.IsNotExist(err) {
		return map[string]record{}, nil
	}

	in, err := ioutil.ReadFile(s.filename)
	if err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return map[string]record{}, nil
	}

	var bonds map[string]record
	if err := jsoniter.Unmarshal(in, &bonds); err != nil {
		return nil, err
	}
	return bonds, nil
}

func (s *Store) storeCache(bonds map[string]record) error {
	out, err := jsoniter.Marshal(bonds)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(s.filename, out, 0644)
}

