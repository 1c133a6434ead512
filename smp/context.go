package smp

import "fmt"

// pairingAttempt holds the ephemeral material for one in-flight pairing
// handshake. ConnState.Reset clears it when an attempt fails or is
// replaced by a new Pairing Request; a completed attempt keeps it (the
// LTK is read again when the peer's identity address arrives).
type pairingAttempt struct {
	Na, Nb Crypto128

	LocalPublicKey  CryptoPublicKey
	RemotePublicKey CryptoPublicKey
	HasRemotePubKey bool

	DHKey    Crypto256
	HasDHKey bool

	MacKey Crypto128
	LTK    Crypto128
}

// checkConfirm recomputes Cb = f4(PKb.x, PKa.x, Nb, 0) and compares it
// against the previously received PairingConfirm. It runs a full 16-byte
// comparison by construction — f4 returns a Crypto128 value type, so
// there is no way to compare fewer than all 16 bytes.
func (c *ConnState) checkConfirm() error {
	calc, err := f4(c.attempt.RemotePublicKey.X, c.attempt.LocalPublicKey.X, c.attempt.Nb, 0x00)
	if err != nil {
		return err
	}
	if calc != c.PeerConfirm {
		return fmt.Errorf("smp: confirm mismatch")
	}
	return nil
}

// calcMacLtk derives MacKey and LTK via f5 once DHKey is available.
// A1 is the Initiator's address and A2 the Responder's, so both sides
// feed f5 the same (A_I, A_R) pair whichever role they are in.
func (c *ConnState) calcMacLtk() error {
	if !c.attempt.HasDHKey {
		return fmt.Errorf("smp: calcMacLtk: no dhkey")
	}

	a1 := sevenByteAddr(c.LocalAddrType, c.LocalAddr)
	a2 := sevenByteAddr(c.PeerAddrType, c.PeerAddr)
	if c.RoleInPairing == RoleResponder {
		a1, a2 = a2, a1
	}

	mk, ltk, err := f5(c.attempt.DHKey, c.attempt.Na, c.attempt.Nb, a1, a2)
	if err != nil {
		return err
	}
	c.attempt.MacKey = mk
	c.attempt.LTK = ltk
	return nil
}

// dhKeyCheck computes f6(MacKey, N1, N2, 0, IOcap, Addr1, Addr2). Ea is
// f6(MacKey, Na, Nb, 0, IOcap_I, A_I, A_R); Eb is f6(MacKey, Nb, Na, 0,
// IOcap_R, A_R, A_I). Callers pick the argument order matching which
// value (Ea, sending Ea, verifying Ea, ...) they are computing.
func (c *ConnState) dhKeyCheck(n1, n2 Crypto128, ioCap IOCap, addr1, addr2 [7]byte) (Crypto128, error) {
	var r Crypto128 // reserved passkey/OOB input, zero for Just Works/Numeric Comparison
	ioc := [3]byte{ioCap.AuthReq, ioCap.OOBFlag, ioCap.IOCap}
	return f6(c.attempt.MacKey, n1, n2, r, ioc, addr1, addr2)
}

// numericCode computes the 6-digit comparison value g2(PKa.x, PKb.x, Na, Nb)
// mod 1,000,000.
func (c *ConnState) numericCode() (uint32, error) {
	initiatorPK := c.attempt.LocalPublicKey.X
	responderPK := c.attempt.RemotePublicKey.X
	na, nb := c.attempt.Na, c.attempt.Nb
	if c.RoleInPairing == RoleResponder {
		initiatorPK, responderPK = c.attempt.RemotePublicKey.X, c.attempt.LocalPublicKey.X
	}
	return g2(initiatorPK, responderPK, na, nb)
}
