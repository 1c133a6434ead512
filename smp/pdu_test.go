package smp

import (
	"bytes"
	"testing"
)

func TestSecurityFrameRoundTrip(t *testing.T) {
	f := SecurityFrame{Code: codePairingConfirm, Payload: []byte{1, 2, 3, 4}}
	parsed, ok := ParseSecurityFrame(f.Marshal())
	if !ok {
		t.Fatal("expected frame to parse")
	}
	if parsed.Code != f.Code || !bytes.Equal(parsed.Payload, f.Payload) {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, f)
	}
}

func TestParseSecurityFrameEmptyDropped(t *testing.T) {
	if _, ok := ParseSecurityFrame(nil); ok {
		t.Error("expected empty payload to fail parsing")
	}
}

func TestPairingRequestRoundTrip(t *testing.T) {
	p := &PairingRequest{IOCap: 3, OOBFlag: 0, AuthReq: 0x09, MaxKeySize: 16, InitKeyDist: 0x03, RespKeyDist: 0x03}
	b := p.Marshal()
	if len(b) != 6 {
		t.Fatalf("expected 6-byte pairing request, got %d", len(b))
	}
	got, err := UnmarshalPairingRequest(b)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestPairingRequestWrongLengthRejected(t *testing.T) {
	if _, err := UnmarshalPairingRequest([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short pairing request")
	}
}

func TestPairingResponseRoundTrip(t *testing.T) {
	p := &PairingResponse{IOCap: 1, OOBFlag: 0, AuthReq: 0x08, MaxKeySize: 16, InitKeyDist: 0x01, RespKeyDist: 0x01}
	got, err := UnmarshalPairingResponse(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if *got != *p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestPairingConfirmRoundTrip(t *testing.T) {
	var w Wire128
	for i := range w {
		w[i] = byte(i)
	}
	p := &PairingConfirm{Confirm: w}
	got, err := UnmarshalPairingConfirm(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Confirm != p.Confirm {
		t.Errorf("round trip mismatch: got %x, want %x", got.Confirm, p.Confirm)
	}
}

func TestPairingConfirmWrongLengthRejected(t *testing.T) {
	if _, err := UnmarshalPairingConfirm(make([]byte, 15)); err == nil {
		t.Error("expected error for short pairing confirm")
	}
}

func TestPairingRandomRoundTrip(t *testing.T) {
	var w Wire128
	w[0] = 0xff
	p := &PairingRandom{Random: w}
	got, err := UnmarshalPairingRandom(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Random != p.Random {
		t.Errorf("round trip mismatch: got %x, want %x", got.Random, p.Random)
	}
}

func TestPairingFailedRoundTrip(t *testing.T) {
	p := &PairingFailed{Reason: ReasonConfirmValueFailed}
	got, err := UnmarshalPairingFailed(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Reason != p.Reason {
		t.Errorf("round trip mismatch: got %#x, want %#x", got.Reason, p.Reason)
	}
}

func TestPairingPublicKeyRoundTrip(t *testing.T) {
	var k WirePublicKey
	for i := range k {
		k[i] = byte(i)
	}
	p := &PairingPublicKey{Key: k}
	got, err := UnmarshalPairingPublicKey(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Key != p.Key {
		t.Errorf("round trip mismatch")
	}
}

func TestPairingPublicKeyWrongLengthRejected(t *testing.T) {
	if _, err := UnmarshalPairingPublicKey(make([]byte, 63)); err == nil {
		t.Error("expected error for short public key")
	}
}

func TestPairingDHKeyCheckRoundTrip(t *testing.T) {
	var w Wire128
	w[15] = 0x42
	p := &PairingDHKeyCheck{Check: w}
	got, err := UnmarshalPairingDHKeyCheck(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Check != p.Check {
		t.Errorf("round trip mismatch")
	}
}

func TestIdentityInformationRoundTrip(t *testing.T) {
	var w Wire128
	w[3] = 0x11
	p := &IdentityInformation{IRK: w}
	got, err := UnmarshalIdentityInformation(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.IRK != p.IRK {
		t.Errorf("round trip mismatch")
	}
}

func TestIdentityAddressInformationRoundTrip(t *testing.T) {
	p := &IdentityAddressInformation{AddrType: 1, Addr: [6]byte{1, 2, 3, 4, 5, 6}}
	got, err := UnmarshalIdentityAddressInformation(p.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if *got != *p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestIdentityAddressInformationWrongLengthRejected(t *testing.T) {
	if _, err := UnmarshalIdentityAddressInformation(make([]byte, 6)); err == nil {
		t.Error("expected error for short identity address information")
	}
}

// TestByteOrderRoundTrip128 is the length-16 instance of the invariant that
// wire_from_crypto(crypto_from_wire(V)) == V for every Wire128 value.
func TestByteOrderRoundTrip128(t *testing.T) {
	var w Wire128
	for i := range w {
		w[i] = byte(i * 7)
	}
	if got := w.ToCrypto().ToWire(); got != w {
		t.Errorf("128-bit byte order round trip mismatch: got %x, want %x", got, w)
	}
}

func TestByteOrderRoundTrip256(t *testing.T) {
	var w Wire256
	for i := range w {
		w[i] = byte(i * 3)
	}
	if got := w.ToCrypto().ToWire(); got != w {
		t.Errorf("256-bit byte order round trip mismatch: got %x, want %x", got, w)
	}
}

func TestByteOrderRoundTripPublicKey(t *testing.T) {
	var w WirePublicKey
	for i := range w {
		w[i] = byte(i)
	}
	if got := w.ToCrypto().ToWire(); got != w {
		t.Errorf("public key byte order round trip mismatch")
	}
}
