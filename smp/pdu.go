package smp

import "fmt"

// SecurityFrame is a parsed security-channel (CID 0x0006) PDU: a single
// code byte followed by a payload whose length is implicit in the code.
// Unknown codes are left for the caller to drop.
type SecurityFrame struct {
	Code    uint8
	Payload []byte
}

// ParseSecurityFrame splits the raw security-channel payload into its
// code and payload. It never fails on length — the per-PDU unmarshal
// functions validate their own fixed lengths and return an error the
// dispatcher turns into a silent drop.
func ParseSecurityFrame(b []byte) (SecurityFrame, bool) {
	if len(b) < 1 {
		return SecurityFrame{}, false
	}
	return SecurityFrame{Code: b[0], Payload: b[1:]}, true
}

// Marshal renders f back onto the wire.
func (f SecurityFrame) Marshal() []byte {
	out := make([]byte, 1+len(f.Payload))
	out[0] = f.Code
	copy(out[1:], f.Payload)
	return out
}

// PairingRequest/PairingResponse share the same 6-byte wire layout:
// ioCap, oobFlag, authReq, maxKeySize, initKeyDist, respKeyDist.
type PairingRequest struct {
	IOCap             uint8
	OOBFlag           uint8
	AuthReq           uint8
	MaxKeySize        uint8
	InitKeyDist       uint8
	RespKeyDist       uint8
}

func (p *PairingRequest) Marshal() []byte {
	return []byte{p.IOCap, p.OOBFlag, p.AuthReq, p.MaxKeySize, p.InitKeyDist, p.RespKeyDist}
}

func UnmarshalPairingRequest(b []byte) (*PairingRequest, error) {
	if len(b) != 6 {
		return nil, fmt.Errorf("smp: pairing request: invalid length %d", len(b))
	}
	return &PairingRequest{
		IOCap:       b[0],
		OOBFlag:     b[1],
		AuthReq:     b[2],
		MaxKeySize:  b[3],
		InitKeyDist: b[4],
		RespKeyDist: b[5],
	}, nil
}

type PairingResponse struct {
	IOCap       uint8
	OOBFlag     uint8
	AuthReq     uint8
	MaxKeySize  uint8
	InitKeyDist uint8
	RespKeyDist uint8
}

func (p *PairingResponse) Marshal() []byte {
	return []byte{p.IOCap, p.OOBFlag, p.AuthReq, p.MaxKeySize, p.InitKeyDist, p.RespKeyDist}
}

func UnmarshalPairingResponse(b []byte) (*PairingResponse, error) {
	if len(b) != 6 {
		return nil, fmt.Errorf("smp: pairing response: invalid length %d", len(b))
	}
	return &PairingResponse{
		IOCap:       b[0],
		OOBFlag:     b[1],
		AuthReq:     b[2],
		MaxKeySize:  b[3],
		InitKeyDist: b[4],
		RespKeyDist: b[5],
	}, nil
}

// PairingConfirm carries a 16-byte confirm value in wire byte order.
type PairingConfirm struct {
	Confirm Wire128
}

func (p *PairingConfirm) Marshal() []byte { return p.Confirm[:] }

func UnmarshalPairingConfirm(b []byte) (*PairingConfirm, error) {
	if len(b) != 16 {
		return nil, fmt.Errorf("smp: pairing confirm: invalid length %d", len(b))
	}
	var p PairingConfirm
	copy(p.Confirm[:], b)
	return &p, nil
}

// PairingRandom carries a 16-byte nonce in wire byte order.
type PairingRandom struct {
	Random Wire128
}

func (p *PairingRandom) Marshal() []byte { return p.Random[:] }

func UnmarshalPairingRandom(b []byte) (*PairingRandom, error) {
	if len(b) != 16 {
		return nil, fmt.Errorf("smp: pairing random: invalid length %d", len(b))
	}
	var p PairingRandom
	copy(p.Random[:], b)
	return &p, nil
}

// PairingFailed carries a single reason byte.
type PairingFailed struct {
	Reason uint8
}

func (p *PairingFailed) Marshal() []byte { return []byte{p.Reason} }

func UnmarshalPairingFailed(b []byte) (*PairingFailed, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("smp: pairing failed: invalid length %d", len(b))
	}
	return &PairingFailed{Reason: b[0]}, nil
}

// PairingPublicKey carries a 64-byte P-256 public key: 32-byte X followed
// by 32-byte Y, both in wire byte order.
type PairingPublicKey struct {
	Key WirePublicKey
}

func (p *PairingPublicKey) Marshal() []byte { return p.Key[:] }

func UnmarshalPairingPublicKey(b []byte) (*PairingPublicKey, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("smp: pairing public key: invalid length %d", len(b))
	}
	var p PairingPublicKey
	copy(p.Key[:], b)
	return &p, nil
}

// PairingDHKeyCheck carries a 16-byte Ea/Eb value in wire byte order.
type PairingDHKeyCheck struct {
	Check Wire128
}

func (p *PairingDHKeyCheck) Marshal() []byte { return p.Check[:] }

func UnmarshalPairingDHKeyCheck(b []byte) (*PairingDHKeyCheck, error) {
	if len(b) != 16 {
		return nil, fmt.Errorf("smp: pairing dhkey check: invalid length %d", len(b))
	}
	var p PairingDHKeyCheck
	copy(p.Check[:], b)
	return &p, nil
}

// IdentityInformation carries the 16-byte IRK in wire byte order.
type IdentityInformation struct {
	IRK Wire128
}

func (p *IdentityInformation) Marshal() []byte { return p.IRK[:] }

func UnmarshalIdentityInformation(b []byte) (*IdentityInformation, error) {
	if len(b) != 16 {
		return nil, fmt.Errorf("smp: identity information: invalid length %d", len(b))
	}
	var p IdentityInformation
	copy(p.IRK[:], b)
	return &p, nil
}

// IdentityAddressInformation carries the peer's identity address.
type IdentityAddressInformation struct {
	AddrType uint8
	Addr     [6]byte
}

func (p *IdentityAddressInformation) Marshal() []byte {
	out := make([]byte, 7)
	out[0] = p.AddrType
	copy(out[1:], p.Addr[:])
	return out
}

func UnmarshalIdentityAddressInformation(b []byte) (*IdentityAddressInformation, error) {
	if len(b) != 7 {
		return nil, fmt.Errorf("smp: identity address information: invalid length %d", len(b))
	}
	p := &IdentityAddressInformation{AddrType: b[0]}
	copy(p.Addr[:], b[1:])
	return p, nil
}
