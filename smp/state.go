package smp

import "github.com/rigado/blecore/ble"

// Role records who sent the first PairingRequest on a connection. Frozen
// once set; the handshake never changes it.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleInitiator
	RoleResponder
)

func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "initiator"
	case RoleResponder:
		return "responder"
	default:
		return "unknown"
	}
}

// PairingState names the twelve externally-observable stages of the LE
// Secure Connections Numeric Comparison / Just Works handshake.
type PairingState uint8

const (
	StateIdle PairingState = iota
	S1RequestSent
	S2ResponseExchanged
	S3PublicKeyExchanged
	S4ConfirmExchanged
	S5RandomSent
	S6RandomExchanged
	S7AwaitingDHKey
	S8DHKeyCheckSent
	S9DHKeyCheckBuffered
	S10DHKeyCheckVerified
	S11EncryptionRequested
	S12KeyDistribution
	StateFinished
	StateFailed
)

// Flag bits track stage progress within one handshake attempt. Set-only
// until a terminal reset.
type Flag uint16

const (
	FlagPairingRequested Flag = 1 << iota
	FlagRequestedEncryption
	FlagDHKeyCalculated
	FlagReceivedDHCheck
	FlagSentDHCheck
	FlagEncrypted
)

// IOCap is the 3-byte {ioCap, oobFlag, authReq} tuple carried in a
// Pairing Request/Response. The field order here matches struct layout
// convenience, not wire order; PDU marshaling handles wire order
// independently.
type IOCap struct {
	IOCap   uint8
	OOBFlag uint8
	AuthReq uint8
}

// ConnState is the connection-scoped pairing state owned by the external
// connection registry and mutated exclusively by this package. One
// instance exists per active ACL connection handle, created on
// connection up by Manager.OnConnectionUp.
type ConnState struct {
	Handle ble.ConnHandle

	RoleInPairing Role
	State         PairingState
	Flags         Flag

	PeerIOCap  IOCap
	LocalIOCap IOCap

	PeerIRK  Crypto128
	LocalIRK Crypto128

	PeerConfirm Crypto128

	RemoteDHKeyCheck    Crypto128
	HasRemoteDHKeyCheck bool

	KeyDistributionAgreed uint8

	PeerAddrType  uint8
	PeerAddr      [6]byte
	LocalAddrType uint8
	LocalAddr     [6]byte

	attempt pairingAttempt
}

// HasFlag reports whether all bits in f are set.
func (c *ConnState) HasFlag(f Flag) bool { return c.Flags&f == f }

// SetFlag sets bits in f; Flags is monotonic until Reset.
func (c *ConnState) SetFlag(f Flag) { c.Flags |= f }

// Reset zeroes ephemeral pairing material and flags, used on Pairing
// Failed in either direction, on a failed encryption change, and when a
// new Pairing Request replaces an attempt in flight. ACL disconnect
// removes the whole ConnState instead (Manager.OnDisconnect).
func (c *ConnState) Reset() {
	c.Flags = 0
	c.PeerConfirm = Crypto128{}
	c.RemoteDHKeyCheck = Crypto128{}
	c.HasRemoteDHKeyCheck = false
	c.attempt = pairingAttempt{}
	c.State = StateIdle
}
