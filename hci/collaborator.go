// Package hci declares the narrow collaborator interfaces the signaling
// and security manager core is driven through. Nothing in this package
// talks to a real controller, socket, or UART; concrete implementations
// (a real HCI transport, or the in-process simhci stand-in used by tests)
// live outside this module's core.
package hci

import "github.com/rigado/blecore/ble"

// L2CAP channel identifiers the core demultiplexes inbound ACL payloads by.
const (
	CIDSignaling = 0x0005
	CIDSecurity  = 0x0006
)

// Transport is the outbound half of the HCI collaborator.
type Transport interface {
	// SendACL emits payload on the given CID for the given connection
	// handle. payload is the channel's PDU (an SMP PDU or a signaling
	// command); it does not include the 4-byte L2CAP basic header.
	SendACL(handle ble.ConnHandle, cid uint16, payload []byte) error

	// SendCommand issues a controller command. params is already
	// serialized; opcode identifies it for any response correlation the
	// caller wants to do out of band.
	SendCommand(opcode uint16, params []byte) error

	// ReadBDAddr returns the local device's own address.
	ReadBDAddr() (ble.Addr, error)

	// LERand fills buf with controller-sourced random bytes.
	LERand(buf []byte) error
}

// Registry is the per-connection state collaborator. The core never owns
// connection state directly; it reads and writes through this interface
// so the enclosing stack can keep state alongside its own ATT bookkeeping.
type Registry interface {
	// Get returns the pairing state stored for handle by Put. It returns
	// ok=false when there is none; the core treats that as a precondition
	// violation and drops the PDU.
	Get(handle ble.ConnHandle) (state interface{}, ok bool)

	// Put stores state for handle, created on ACL connection up. ok is
	// false only on resource exhaustion.
	Put(handle ble.ConnHandle, state interface{}) (ok bool)

	// Delete removes all state for handle (ACL disconnect).
	Delete(handle ble.ConnHandle)
}

// BondInfo is one stored long-term-key record.
type BondInfo interface {
	LongTermKey() []byte
	PeerAddress() ble.Addr
	PeerIRK() []byte
}

// BondManager persists and retrieves bonding information. Persistence
// itself is an external collaborator; this module only defines the shape
// and ships one JSON-backed implementation in package bond for tests and
// the demo CLI.
type BondManager interface {
	Find(addr ble.Addr) (BondInfo, error)
	Save(addr ble.Addr, info BondInfo) error
	Delete(addr ble.Addr) error
}

// UserPrompt is the UI collaborator: display of the numeric comparison
// code, and the blocking yes/no confirmation.
type UserPrompt interface {
	// DisplayCode shows the 6-digit numeric comparison code. Fire and
	// forget: it returns no result, and the handshake does not depend on
	// one.
	DisplayCode(handle ble.ConnHandle, code uint32)

	// ConfirmPairing blocks until the user accepts or rejects. The
	// handshake blocks on this call.
	ConfirmPairing(handle ble.ConnHandle) bool

	// StoreLTK persists the freshly derived LTK for handle's peer. Queuing
	// this so it doesn't block further PDU handling is the caller's
	// responsibility.
	StoreLTK(addr ble.Addr, ltk []byte)
}
