package bond

import (
	"os"
	"testing"

	"github.com/rigado/blecore/ble"
)

func testAddr() ble.Addr {
	a, _ := ble.ParseAddr("aa:bb:cc:dd:ee:ff", ble.AddrTypeRandom)
	return a
}

func TestStore_SaveFind(t *testing.T) {
	const filename = "./test_bonds.json"
	defer os.Remove(filename)

	s := NewStore(filename)
	addr := testAddr()
	ltk := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	irk := []byte{0x10, 0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}

	if err := s.Save(addr, &bondInfo{addr: addr, ltk: ltk, irk: irk}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Find(addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.LongTermKey()) != string(ltk) {
		t.Errorf("ltk mismatch: got %x want %x", got.LongTermKey(), ltk)
	}
	if string(got.PeerIRK()) != string(irk) {
		t.Errorf("irk mismatch: got %x want %x", got.PeerIRK(), irk)
	}
	if got.PeerAddress() != addr {
		t.Errorf("addr mismatch: got %v want %v", got.PeerAddress(), addr)
	}
}

func TestStore_FindMissing(t *testing.T) {
	const filename = "./test_bonds_missing.json"
	defer os.Remove(filename)

	s := NewStore(filename)
	if _, err := s.Find(testAddr()); err == nil {
		t.Error("expected error for missing bond, got nil")
	}
}

func TestStore_Delete(t *testing.T) {
	const filename = "./test_bonds_delete.json"
	defer os.Remove(filename)

	s := NewStore(filename)
	addr := testAddr()
	if err := s.Save(addr, &bondInfo{addr: addr, ltk: []byte{0xaa}, irk: []byte{0xbb}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(addr); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Find(addr); err == nil {
		t.Error("expected error after delete, got nil")
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	const filename = "./test_bonds_persist.json"
	defer os.Remove(filename)

	addr := testAddr()
	s1 := NewStore(filename)
	if err := s1.Save(addr, &bondInfo{addr: addr, ltk: []byte{0x42}, irk: []byte{0x24}}); err != nil {
		t.Fatal(err)
	}

	s2 := NewStore(filename)
	got, err := s2.Find(addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.LongTermKey()) != "\x42" {
		t.Errorf("ltk did not persist: got %x", got.LongTermKey())
	}
}
