package hci

// The core never parses raw HCI event packets itself — the controller's
// event framing is the transport's job. These are the typed payloads the
// transport hands to the core's callback entry points (OnPublicKeyReady,
// OnDHKeyReady, OnEncryptionChange) once it has done that framing.

// PublicKeyReady carries the controller-generated local P-256 public key
// in cryptographic (big-endian) byte order, X then Y, 32 bytes each.
type PublicKeyReady struct {
	X, Y [32]byte
}

// DHKeyReady carries the controller-computed ECDH shared secret in
// cryptographic byte order.
type DHKeyReady struct {
	DHKey [32]byte
}

// EncryptionChange reports the outcome of an LE Start Encryption attempt.
type EncryptionChange struct {
	Handle  uint16
	Enabled bool
	Status  uint8
}

// RandReady carries controller-sourced random bytes requested via LERand.
type RandReady struct {
	Bytes []byte
}
