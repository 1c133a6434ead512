package smp

import "github.com/rigado/blecore/sliceops"

// The Core Spec carries every 16/32/64-byte cryptographic value on the
// wire least-significant-byte first, but the AES-CMAC-based derivation
// functions (f4/f5/f6/g2) expect their inputs most-significant-byte first.
// Wire* and Crypto* are distinct named types so the two conventions cannot
// be mixed up by accident; the only place a value crosses from one to the
// other is the ToWire/ToCrypto pair below, which the PDU codec calls at
// the wire boundary.

// Wire128 is a 16-byte value in wire (little-endian) byte order.
type Wire128 [16]byte

// Crypto128 is a 16-byte value in cryptographic (big-endian) byte order.
type Crypto128 [16]byte

// ToCrypto reverses w into cryptographic byte order.
func (w Wire128) ToCrypto() Crypto128 {
	var c Crypto128
	copy(c[:], sliceops.SwapBuf(w[:]))
	return c
}

// ToWire reverses c into wire byte order.
func (c Crypto128) ToWire() Wire128 {
	var w Wire128
	copy(w[:], sliceops.SwapBuf(c[:]))
	return w
}

// Bytes returns c as a plain slice for use with aesCMAC and friends.
func (c Crypto128) Bytes() []byte { return c[:] }

// Wire256 is a 32-byte value in wire byte order (e.g. the DHKey is never
// put on the wire, but a public key's X or Y coordinate is carried this
// way within PairingPublicKey).
type Wire256 [32]byte

// Crypto256 is a 32-byte value in cryptographic byte order.
type Crypto256 [32]byte

// ToCrypto reverses w into cryptographic byte order.
func (w Wire256) ToCrypto() Crypto256 {
	var c Crypto256
	copy(c[:], sliceops.SwapBuf(w[:]))
	return c
}

// ToWire reverses c into wire byte order.
func (c Crypto256) ToWire() Wire256 {
	var w Wire256
	copy(w[:], sliceops.SwapBuf(c[:]))
	return w
}

// Bytes returns c as a plain slice.
func (c Crypto256) Bytes() []byte { return c[:] }

// WirePublicKey is the 64-byte PairingPublicKey payload: 32-byte X
// followed by 32-byte Y, each in wire byte order.
type WirePublicKey [64]byte

// CryptoPublicKey is a P-256 affine point with both coordinates in
// cryptographic byte order.
type CryptoPublicKey struct {
	X, Y Crypto256
}

// ToCrypto splits and reverses w into its X,Y coordinates.
func (w WirePublicKey) ToCrypto() CryptoPublicKey {
	var pk CryptoPublicKey
	var wx, wy Wire256
	copy(wx[:], w[:32])
	copy(wy[:], w[32:])
	pk.X = wx.ToCrypto()
	pk.Y = wy.ToCrypto()
	return pk
}

// ToWire reassembles pk into the 64-byte wire payload.
func (pk CryptoPublicKey) ToWire() WirePublicKey {
	var w WirePublicKey
	wx := pk.X.ToWire()
	wy := pk.Y.ToWire()
	copy(w[:32], wx[:])
	copy(w[32:], wy[:])
	return w
}

// sevenByteAddr renders a is a 1-byte type prefix followed by the 6
// address bytes, in cryptographic order. The type byte is already in the
// byte order the Core Spec wants — it is not itself reversed.
func sevenByteAddr(addrType byte, addr [6]byte) [7]byte {
	var out [7]byte
	out[0] = addrType
	copy(out[1:], addr[:])
	return out
}
