package smp

import (
	"fmt"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
)

func (m *Manager) send(cs *ConnState, f SecurityFrame) error {
	return m.transport.SendACL(cs.Handle, hci.CIDSecurity, f.Marshal())
}

func (m *Manager) sendPairingRequest(cs *ConnState) error {
	req := &PairingRequest{
		IOCap:       cs.LocalIOCap.IOCap,
		OOBFlag:     cs.LocalIOCap.OOBFlag,
		AuthReq:     cs.LocalIOCap.AuthReq,
		MaxKeySize:  m.cfg.MaxKeySize,
		InitKeyDist: m.cfg.InitKeyDist,
		RespKeyDist: m.cfg.RespKeyDist,
	}
	return m.send(cs, SecurityFrame{Code: codePairingRequest, Payload: req.Marshal()})
}

func (m *Manager) sendPairingResponse(cs *ConnState) error {
	resp := &PairingResponse{
		IOCap:       cs.LocalIOCap.IOCap,
		OOBFlag:     cs.LocalIOCap.OOBFlag,
		AuthReq:     cs.LocalIOCap.AuthReq,
		MaxKeySize:  m.cfg.MaxKeySize,
		InitKeyDist: m.cfg.InitKeyDist,
		RespKeyDist: m.cfg.RespKeyDist,
	}
	return m.send(cs, SecurityFrame{Code: codePairingResponse, Payload: resp.Marshal()})
}

func (m *Manager) sendPairingFailed(cs *ConnState, reason uint8) error {
	pf := &PairingFailed{Reason: reason}
	return m.send(cs, SecurityFrame{Code: codePairingFailed, Payload: pf.Marshal()})
}

func (m *Manager) sendPublicKey(cs *ConnState) error {
	pk := &PairingPublicKey{Key: cs.attempt.LocalPublicKey.ToWire()}
	return m.send(cs, SecurityFrame{Code: codePairingPublicKey, Payload: pk.Marshal()})
}

// sendPairingConfirm computes and sends Cb = f4(PKb.x, PKa.x, Nb, 0),
// generating Nb first if it hasn't been already. The responder computes
// Cb and sends PairingConfirm immediately after its own public key.
func (m *Manager) sendPairingConfirm(cs *ConnState) error {
	if cs.attempt.Nb == (Crypto128{}) {
		nb, err := m.generateNonce()
		if err != nil {
			return err
		}
		cs.attempt.Nb = nb
	}

	cb, err := f4(cs.attempt.LocalPublicKey.X, cs.attempt.RemotePublicKey.X, cs.attempt.Nb, 0x00)
	if err != nil {
		return err
	}

	pc := &PairingConfirm{Confirm: cb.ToWire()}
	return m.send(cs, SecurityFrame{Code: codePairingConfirm, Payload: pc.Marshal()})
}

// sendPairingRandom sends Na (Initiator) or Nb (Responder), generating it
// first if needed.
func (m *Manager) sendPairingRandom(cs *ConnState) error {
	var nonce *Crypto128
	if cs.RoleInPairing == RoleInitiator {
		nonce = &cs.attempt.Na
	} else {
		nonce = &cs.attempt.Nb
	}

	if *nonce == (Crypto128{}) {
		n, err := m.generateNonce()
		if err != nil {
			return err
		}
		*nonce = n
	}

	pr := &PairingRandom{Random: nonce.ToWire()}
	return m.send(cs, SecurityFrame{Code: codePairingRandom, Payload: pr.Marshal()})
}

// sendDHKeyCheck computes and sends Ea (Initiator) or Eb (Responder).
func (m *Manager) sendDHKeyCheck(cs *ConnState) error {
	var chk Crypto128
	var err error

	switch cs.RoleInPairing {
	case RoleInitiator:
		chk, err = cs.dhKeyCheck(cs.attempt.Na, cs.attempt.Nb, cs.LocalIOCap, localAddr7(cs), peerAddr7(cs))
	case RoleResponder:
		chk, err = cs.dhKeyCheck(cs.attempt.Nb, cs.attempt.Na, cs.LocalIOCap, localAddr7(cs), peerAddr7(cs))
	default:
		return fmt.Errorf("smp: sendDHKeyCheck: no role set")
	}
	if err != nil {
		return err
	}

	cs.SetFlag(FlagSentDHCheck)
	cs.State = S8DHKeyCheckSent

	dc := &PairingDHKeyCheck{Check: chk.ToWire()}
	return m.send(cs, SecurityFrame{Code: codePairingDHKeyCheck, Payload: dc.Marshal()})
}

// generateNonce draws a 16-byte nonce from the controller's RNG via two
// 8-byte LE Rand calls.
func (m *Manager) generateNonce() (Crypto128, error) {
	var n Crypto128
	if err := m.transport.LERand(n[:8]); err != nil {
		return Crypto128{}, err
	}
	if err := m.transport.LERand(n[8:]); err != nil {
		return Crypto128{}, err
	}
	return n, nil
}

func addrFromParts(addrType uint8, addr [6]byte) ble.Addr {
	return ble.Addr{Type: ble.AddrType(addrType), Bytes: addr}
}

type bondInfo struct {
	addr ble.Addr
	ltk  []byte
	irk  []byte
}

func newBondInfo(addr ble.Addr, ltk, irk []byte) hci.BondInfo {
	return &bondInfo{addr: addr, ltk: ltk, irk: irk}
}

func (b *bondInfo) LongTermKey() []byte  { return b.ltk }
func (b *bondInfo) PeerAddress() ble.Addr { return b.addr }
func (b *bondInfo) PeerIRK() []byte       { return b.irk }
