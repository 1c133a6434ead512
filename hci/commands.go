package hci

import (
	"bytes"
	"encoding/binary"
)

// Opcodes for the controller commands the core issues.
// OGF 0x08 is the LE Controller Commands group [Vol 4, Part E, 7.8].
const (
	OpcodeLESetConnectionUpdate        = 0x2013 // LE Connection Update [7.8.18]
	OpcodeLEReadLocalP256PublicKey     = 0x2025 // LE Read Local P-256 Public Key [7.8.36]
	OpcodeLEGenerateDHKeyV1            = 0x2026 // LE Generate DHKey V1 [7.8.37]
	OpcodeLEStartEncryption            = 0x2019 // LE Start Encryption [7.8.24]
	OpcodeLERand                       = 0x2018 // LE Rand [7.8.23]
)

// LEConnectionUpdate implements LE Connection Update (0x2013).
type LEConnectionUpdate struct {
	ConnectionHandle   uint16
	IntervalMin        uint16
	IntervalMax        uint16
	Latency            uint16
	SupervisionTimeout uint16
	MinCELength        uint16
	MaxCELength        uint16
}

// Marshal serializes the command parameters into binary form.
func (c *LEConnectionUpdate) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 14))
	binary.Write(buf, binary.LittleEndian, c)
	return buf.Bytes()
}

// LEStartEncryption implements LE Start Encryption (0x2019), issued by
// the Initiator at the end of a fresh pairing.
type LEStartEncryption struct {
	ConnectionHandle   uint16
	RandomNumber       [8]byte
	EncryptedDiversifier uint16
	LongTermKey        [16]byte
}

// Marshal serializes the command parameters into binary form.
func (c *LEStartEncryption) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 28))
	binary.Write(buf, binary.LittleEndian, c)
	return buf.Bytes()
}
