package smp

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/aead/cmac"
	"github.com/rigado/blecore/sliceops"
)

// f4, f5, f6 and g2 are the LE Secure Connections key-generation functions
// [Vol 3, Part H, 2.2.6-2.2.9]. All four are built on a single AES-CMAC
// primitive (aesCMAC below); every byte-order reversal they perform is
// part of the functions' own definition (the Core Spec's "LSB/MSB"
// convention for CMAC inputs), not a wire/crypto boundary crossing — that
// boundary is handled once, in bytes.go, before values ever reach here.

// f4(U, V, X, Z) = AES-CMAC_X(U || V || Z) [2.2.6].
func f4(u, v CryptoPublicKeyX, x Crypto128, z uint8) (Crypto128, error) {
	m := []byte{z}
	m = append(m, v[:]...)
	m = append(m, u[:]...)

	out, err := aesCMAC(x.Bytes(), m)
	if err != nil {
		return Crypto128{}, err
	}
	var c Crypto128
	copy(c[:], out)
	return c, nil
}

// f5(W, N1, N2, A1, A2) -> (MacKey, LTK) [2.2.7].
func f5(w Crypto256, n1, n2 Crypto128, a1, a2 [7]byte) (macKey, ltk Crypto128, err error) {
	btle := []byte{0x65, 0x6c, 0x74, 0x62}
	salt := []byte{
		0xbe, 0x83, 0x60, 0x5a, 0xdb, 0x0b, 0x37, 0x60,
		0x38, 0xa5, 0xf5, 0xaa, 0x91, 0x83, 0x88, 0x6c,
	}
	length := []byte{0x00, 0x01}

	t, err := aesCMAC(salt, w.Bytes())
	if err != nil {
		return Crypto128{}, Crypto128{}, fmt.Errorf("smp: f5 key derivation: %w", err)
	}

	m := append([]byte{}, length...)
	m = append(m, a2[:]...)
	m = append(m, a1[:]...)
	m = append(m, n2[:]...)
	m = append(m, n1[:]...)
	m = append(m, btle...)
	m = append(m, 0x00) // counter = 0, selects MacKey

	mk, err := aesCMAC(t, m)
	if err != nil {
		return Crypto128{}, Crypto128{}, fmt.Errorf("smp: f5 mackey: %w", err)
	}

	m[len(m)-1] = 0x01 // counter = 1, selects LTK
	lk, err := aesCMAC(t, m)
	if err != nil {
		return Crypto128{}, Crypto128{}, fmt.Errorf("smp: f5 ltk: %w", err)
	}

	copy(macKey[:], mk)
	copy(ltk[:], lk)
	return macKey, ltk, nil
}

// f6(W, N1, N2, R, IOcap, A1, A2) = AES-CMAC_W(N1 || N2 || R || IOcap || A1 || A2) [2.2.8].
func f6(w, n1, n2, r Crypto128, ioCap [3]byte, a1, a2 [7]byte) (Crypto128, error) {
	m := append([]byte{}, a2[:]...)
	m = append(m, a1[:]...)
	m = append(m, ioCap[:]...)
	m = append(m, r[:]...)
	m = append(m, n2[:]...)
	m = append(m, n1[:]...)

	out, err := aesCMAC(w.Bytes(), m)
	if err != nil {
		return Crypto128{}, err
	}
	var c Crypto128
	copy(c[:], out)
	return c, nil
}

// g2(U, V, X, Y) = AES-CMAC_X(U || V || Y) mod 2^32 [2.2.9], reduced again
// mod 1,000,000 here since the only use this core has for it is the
// 6-digit numeric comparison value.
func g2(u, v CryptoPublicKeyX, x, y Crypto128) (uint32, error) {
	m := append([]byte{}, y[:]...)
	m = append(m, v[:]...)
	m = append(m, u[:]...)

	h, err := aesCMAC(x.Bytes(), m)
	if err != nil {
		return 0, err
	}

	raw := binary.LittleEndian.Uint32(h[:4])
	return raw % 1000000, nil
}

// CryptoPublicKeyX is the X coordinate of a P-256 public key in
// cryptographic byte order — f4 and g2 only ever consume X, never Y.
type CryptoPublicKeyX = Crypto256

// aesCMAC computes AES-CMAC_key(msg) the way the Core Spec's key
// derivation functions want it: both key and message are byte-reversed
// before going into the primitive, and the digest is reversed again on
// the way out.
func aesCMAC(key, msg []byte) ([]byte, error) {
	if len(key) != 16 {
		return nil, fmt.Errorf("smp: aes-cmac key must be 16 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(sliceops.SwapBuf(key))
	if err != nil {
		return nil, err
	}

	mac, err := cmac.New(block)
	if err != nil {
		return nil, err
	}

	mac.Write(sliceops.SwapBuf(msg))

	return sliceops.SwapBuf(mac.Sum(nil)), nil
}
