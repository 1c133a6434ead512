package smp

import (
	"fmt"

	"github.com/rigado/blecore/hci"
)

// onPairingRequest handles an inbound PairingRequest, entering the
// Responder role.
func (m *Manager) onPairingRequest(cs *ConnState, payload []byte) error {
	req, err := UnmarshalPairingRequest(payload)
	if err != nil {
		return nil // malformed PDU, silently dropped
	}

	if cs.State != StateIdle {
		// a new PairingRequest on an in-flight attempt aborts the old one.
		cs.Reset()
	}

	if m.cfg.Pairing == PairingDisabled || (m.cfg.Pairing == PairingOnceThenDisable && m.hasPairedOnce()) {
		return m.sendPairingFailed(cs, ReasonPairingNotSupported)
	}

	cs.RoleInPairing = RoleResponder
	cs.SetFlag(FlagPairingRequested)
	cs.PeerIOCap = IOCap{IOCap: req.IOCap, OOBFlag: req.OOBFlag, AuthReq: req.AuthReq}
	cs.LocalIOCap = IOCap{IOCap: m.cfg.LocalIOCap, OOBFlag: m.cfg.OOBFlag, AuthReq: m.cfg.AuthReq}
	cs.KeyDistributionAgreed = req.InitKeyDist & m.cfg.RespKeyDist

	if err := m.sendPairingResponse(cs); err != nil {
		return err
	}

	cs.State = S2ResponseExchanged
	return m.transport.SendCommand(hci.OpcodeLEReadLocalP256PublicKey, nil)
}

// onPairingResponse handles an inbound PairingResponse on the Initiator
// path.
func (m *Manager) onPairingResponse(cs *ConnState, payload []byte) error {
	if cs.RoleInPairing != RoleInitiator {
		return nil
	}
	resp, err := UnmarshalPairingResponse(payload)
	if err != nil {
		return nil
	}

	cs.PeerIOCap = IOCap{IOCap: resp.IOCap, OOBFlag: resp.OOBFlag, AuthReq: resp.AuthReq}
	cs.KeyDistributionAgreed = resp.RespKeyDist & m.cfg.InitKeyDist
	cs.State = S2ResponseExchanged

	return m.transport.SendCommand(hci.OpcodeLEReadLocalP256PublicKey, nil)
}

// onPairingPublicKey handles an inbound PairingPublicKey in either role.
// It guards against CVE-2020-26558: a peer replaying our own public key
// back at us must not be accepted.
func (m *Manager) onPairingPublicKey(cs *ConnState, payload []byte) error {
	pk, err := UnmarshalPairingPublicKey(payload)
	if err != nil {
		return nil
	}

	remote := pk.Key.ToCrypto()
	if remote == cs.attempt.LocalPublicKey {
		return m.abort(cs, ReasonUnspecifiedReason, fmt.Errorf("smp: remote public key equals local public key (CVE-2020-26558)"))
	}

	cs.attempt.RemotePublicKey = remote
	cs.attempt.HasRemotePubKey = true
	cs.State = S3PublicKeyExchanged

	return m.transport.SendCommand(hci.OpcodeLEGenerateDHKeyV1, pk.Key[:])
}

// onPairingConfirm handles the responder's Cb, received only by the
// Initiator in the Numeric Comparison / Just Works handshake.
func (m *Manager) onPairingConfirm(cs *ConnState, payload []byte) error {
	if cs.RoleInPairing != RoleInitiator {
		return nil
	}
	conf, err := UnmarshalPairingConfirm(payload)
	if err != nil {
		return nil
	}

	cs.PeerConfirm = conf.Confirm.ToCrypto()
	cs.State = S4ConfirmExchanged

	return m.sendPairingRandom(cs)
}

// onPairingRandom handles the nonce exchange. Initiator receives Nb and
// verifies Cb; Responder receives Na and replies with Nb.
func (m *Manager) onPairingRandom(cs *ConnState, payload []byte) error {
	rnd, err := UnmarshalPairingRandom(payload)
	if err != nil {
		return nil
	}

	switch cs.RoleInPairing {
	case RoleInitiator:
		cs.attempt.Nb = rnd.Random.ToCrypto()
		if err := cs.checkConfirm(); err != nil {
			return m.abort(cs, ReasonConfirmValueFailed, err)
		}
		return m.confirmNumericCode(cs)

	case RoleResponder:
		cs.attempt.Na = rnd.Random.ToCrypto()
		if err := m.sendPairingRandom(cs); err != nil {
			return err
		}
		return m.confirmNumericCode(cs)

	default:
		return nil
	}
}

// confirmNumericCode computes g2(...) and runs the two-callback numeric
// comparison protocol.
func (m *Manager) confirmNumericCode(cs *ConnState) error {
	code, err := cs.numericCode()
	if err != nil {
		return m.abort(cs, ReasonUnspecifiedReason, err)
	}

	m.prompt.DisplayCode(cs.Handle, code)
	cs.State = S6RandomExchanged

	if !m.prompt.ConfirmPairing(cs.Handle) {
		return m.abort(cs, ReasonNumericComparisonFailed, fmt.Errorf("smp: user rejected numeric comparison"))
	}

	cs.State = S7AwaitingDHKey
	return nil
}

// onPairingDHKeyCheck handles an inbound Ea/Eb. If the local DHKey has
// not finished computing yet, the value is buffered and verification is
// deferred until the DHKey becomes available.
func (m *Manager) onPairingDHKeyCheck(cs *ConnState, payload []byte) error {
	chk, err := UnmarshalPairingDHKeyCheck(payload)
	if err != nil {
		return nil
	}

	cs.RemoteDHKeyCheck = chk.Check.ToCrypto()
	cs.HasRemoteDHKeyCheck = true
	cs.SetFlag(FlagReceivedDHCheck)

	if !cs.attempt.HasDHKey {
		cs.State = S9DHKeyCheckBuffered
		return nil
	}

	return m.verifyDHKeyCheck(cs)
}

// verifyDHKeyCheck recomputes the peer's Ea/Eb and compares it against
// what was received, completing stage S9/S10 for whichever role cs is
// in.
func (m *Manager) verifyDHKeyCheck(cs *ConnState) error {
	var expected Crypto128
	var err error

	switch cs.RoleInPairing {
	case RoleInitiator:
		// verify peer's Eb = f6(MacKey, Nb, Na, 0, IOcap_R, A_R, A_I)
		expected, err = cs.dhKeyCheck(cs.attempt.Nb, cs.attempt.Na, cs.PeerIOCap, peerAddr7(cs), localAddr7(cs))
	case RoleResponder:
		// verify peer's Ea = f6(MacKey, Na, Nb, 0, IOcap_I, A_I, A_R)
		expected, err = cs.dhKeyCheck(cs.attempt.Na, cs.attempt.Nb, cs.PeerIOCap, peerAddr7(cs), localAddr7(cs))
	default:
		return nil
	}
	if err != nil {
		return m.abort(cs, ReasonUnspecifiedReason, err)
	}

	if expected != cs.RemoteDHKeyCheck {
		return m.abort(cs, ReasonDHKeyCheckFailed, fmt.Errorf("smp: dhkey check mismatch"))
	}

	cs.State = S10DHKeyCheckVerified

	if cs.RoleInPairing == RoleResponder {
		if err := m.sendDHKeyCheck(cs); err != nil {
			return err
		}
	}

	return m.completePairing(cs)
}

// completePairing persists the LTK and requests link-layer encryption.
// Only the Initiator issues LE Start Encryption; the Responder observes
// the resulting EncryptionChange event.
func (m *Manager) completePairing(cs *ConnState) error {
	m.markPairedOnce()

	addr := addrFromParts(cs.PeerAddrType, cs.PeerAddr)
	m.prompt.StoreLTK(addr, cs.attempt.LTK.Bytes())
	if err := m.bonds.Save(addr, newBondInfo(addr, cs.attempt.LTK.Bytes(), cs.PeerIRK.Bytes())); err != nil {
		m.log.Errorf("failed to persist bond for %s: %v", cs.Handle, err)
	}

	if cs.RoleInPairing == RoleInitiator {
		cs.SetFlag(FlagRequestedEncryption)
		ltk := cs.attempt.LTK.ToWire()
		cmd := &hci.LEStartEncryption{ConnectionHandle: uint16(cs.Handle), LongTermKey: ltk}
		if err := m.transport.SendCommand(hci.OpcodeLEStartEncryption, cmd.Marshal()); err != nil {
			return err
		}
	}

	cs.State = S12KeyDistribution
	return nil
}

// onPairingFailed handles an inbound abort from the peer.
func (m *Manager) onPairingFailed(cs *ConnState, payload []byte) error {
	fail, _ := UnmarshalPairingFailed(payload)
	reason := uint8(0)
	if fail != nil {
		reason = fail.Reason
	}
	m.log.Warnf("peer aborted pairing on %s: %s", cs.Handle, reasonString(reason))
	cs.Reset()
	return nil
}

// onIdentityInformation stores the peer's IRK.
func (m *Manager) onIdentityInformation(cs *ConnState, payload []byte) error {
	info, err := UnmarshalIdentityInformation(payload)
	if err != nil {
		return nil
	}
	cs.PeerIRK = info.IRK.ToCrypto()
	cs.KeyDistributionAgreed |= KeyDistIdKey
	return nil
}

// onIdentityAddressInformation stores the peer's identity address and
// re-saves the bond record under it.
func (m *Manager) onIdentityAddressInformation(cs *ConnState, payload []byte) error {
	info, err := UnmarshalIdentityAddressInformation(payload)
	if err != nil {
		return nil
	}
	cs.PeerAddrType = info.AddrType
	cs.PeerAddr = info.Addr

	addr := addrFromParts(cs.PeerAddrType, cs.PeerAddr)
	return m.bonds.Save(addr, newBondInfo(addr, cs.attempt.LTK.Bytes(), cs.PeerIRK.Bytes()))
}

func (m *Manager) hasPairedOnce() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairedOnce
}

func (m *Manager) markPairedOnce() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairedOnce = true
}

func peerAddr7(cs *ConnState) [7]byte  { return sevenByteAddr(cs.PeerAddrType, cs.PeerAddr) }
func localAddr7(cs *ConnState) [7]byte { return sevenByteAddr(cs.LocalAddrType, cs.LocalAddr) }
