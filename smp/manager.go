package smp

import (
	"fmt"
	"sync"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
)

// Config bounds the local pairing behavior: whether pairing is enabled
// at all, plus the IOcap/key-distribution advertisement this core sends
// in its own Pairing Request/Response.
type Config struct {
	Pairing PairingMode

	LocalIOCap  uint8
	OOBFlag     uint8
	AuthReq     uint8
	MaxKeySize  uint8
	InitKeyDist uint8
	RespKeyDist uint8
}

// Manager drives the pairing state machine for every connection handle,
// role-split internally into initiator and responder paths that share
// the f4/f5/f6/g2 substeps. It owns no connection state directly; all of
// it lives behind registry, the connection-state collaborator shared
// with the rest of the stack.
type Manager struct {
	cfg       Config
	transport hci.Transport
	registry  hci.Registry
	bonds     hci.BondManager
	prompt    hci.UserPrompt
	log       ble.Logger

	mu         sync.Mutex
	pairedOnce bool // gates PairingOnceThenDisable
}

// NewManager wires the pairing state machine to its external
// collaborators. None of transport, registry, bonds, or prompt may be
// nil; constructing a Manager without them is a programming error, not
// something to degrade gracefully from.
func NewManager(cfg Config, transport hci.Transport, registry hci.Registry, bonds hci.BondManager, prompt hci.UserPrompt) *Manager {
	return &Manager{
		cfg:       cfg,
		transport: transport,
		registry:  registry,
		bonds:     bonds,
		prompt:    prompt,
		log:       ble.GetLogger().ChildLogger(map[string]interface{}{"component": "smp.manager"}),
	}
}

// OnConnectionUp enters a fresh, idle ConnState for handle. It does not
// itself start a pairing attempt.
func (m *Manager) OnConnectionUp(handle ble.ConnHandle, localAddrType uint8, localAddr [6]byte, peerAddrType uint8, peerAddr [6]byte) bool {
	cs := &ConnState{
		Handle:        handle,
		LocalAddrType: localAddrType,
		LocalAddr:     localAddr,
		PeerAddrType:  peerAddrType,
		PeerAddr:      peerAddr,
	}
	return m.registry.Put(handle, cs)
}

// OnDisconnect tears down all state for handle unconditionally.
func (m *Manager) OnDisconnect(handle ble.ConnHandle) {
	m.registry.Delete(handle)
}

func (m *Manager) stateFor(handle ble.ConnHandle) (*ConnState, bool) {
	v, ok := m.registry.Get(handle)
	if !ok {
		return nil, false
	}
	cs, ok := v.(*ConnState)
	return cs, ok
}

// InitiatePairing starts a fresh handshake as Initiator on handle. It
// fails if an attempt is already in flight.
func (m *Manager) InitiatePairing(handle ble.ConnHandle) error {
	cs, ok := m.stateFor(handle)
	if !ok {
		return fmt.Errorf("smp: no connection state for %s", handle)
	}
	if cs.State != StateIdle {
		return fmt.Errorf("smp: pairing already in progress on %s", handle)
	}

	cs.RoleInPairing = RoleInitiator
	cs.SetFlag(FlagPairingRequested)
	cs.State = S1RequestSent
	cs.LocalIOCap = IOCap{IOCap: m.cfg.LocalIOCap, OOBFlag: m.cfg.OOBFlag, AuthReq: m.cfg.AuthReq}

	return m.sendPairingRequest(cs)
}

// HandleSecurityPDU is the entry point for inbound security-channel
// (CID 0x0006) payloads. Unknown codes and length violations are
// silently dropped.
func (m *Manager) HandleSecurityPDU(handle ble.ConnHandle, payload []byte) error {
	f, ok := ParseSecurityFrame(payload)
	if !ok {
		m.log.Debugf("dropping malformed security frame on %s", handle)
		return nil
	}

	cs, ok := m.stateFor(handle)
	if !ok {
		m.log.Warnf("dropping security PDU for unknown connection %s", handle)
		return nil
	}

	h, known := securityHandlers[f.Code]
	if !known {
		m.log.Debugf("dropping unrecognized SMP code %#x on %s", f.Code, handle)
		return nil
	}

	if err := h(m, cs, f.Payload); err != nil {
		m.log.Errorf("smp %s: %v", handle, err)
		return err
	}
	return nil
}

// OnPublicKeyReady re-enters the core once the controller has generated
// the local P-256 key pair.
func (m *Manager) OnPublicKeyReady(handle ble.ConnHandle, evt hci.PublicKeyReady) error {
	cs, ok := m.stateFor(handle)
	if !ok {
		return fmt.Errorf("smp: no connection state for %s", handle)
	}

	cs.attempt.LocalPublicKey = CryptoPublicKey{X: Crypto256(evt.X), Y: Crypto256(evt.Y)}

	if err := m.sendPublicKey(cs); err != nil {
		return err
	}

	if cs.RoleInPairing == RoleResponder {
		return m.sendPairingConfirm(cs)
	}
	return nil
}

// OnDHKeyReady re-enters the core once the controller has computed the
// ECDH shared secret. If a peer DHKeyCheck value already arrived and
// was buffered, verification resumes immediately.
func (m *Manager) OnDHKeyReady(handle ble.ConnHandle, evt hci.DHKeyReady) error {
	cs, ok := m.stateFor(handle)
	if !ok {
		return fmt.Errorf("smp: no connection state for %s", handle)
	}

	cs.attempt.DHKey = Crypto256(evt.DHKey)
	cs.attempt.HasDHKey = true
	cs.SetFlag(FlagDHKeyCalculated)

	if err := cs.calcMacLtk(); err != nil {
		return m.abort(cs, ReasonUnspecifiedReason, err)
	}

	if cs.RoleInPairing == RoleInitiator {
		if err := m.sendDHKeyCheck(cs); err != nil {
			return err
		}
	}

	if cs.HasRemoteDHKeyCheck {
		return m.verifyDHKeyCheck(cs)
	}
	return nil
}

// OnEncryptionChange re-enters the core once the controller reports the
// outcome of LE Start Encryption.
func (m *Manager) OnEncryptionChange(handle ble.ConnHandle, evt hci.EncryptionChange) error {
	cs, ok := m.stateFor(handle)
	if !ok {
		return nil
	}
	if !evt.Enabled {
		m.log.Warnf("encryption failed on %s, status %#x", handle, evt.Status)
		cs.Reset()
		return nil
	}

	cs.SetFlag(FlagEncrypted)
	cs.State = StateFinished
	return nil
}

func (m *Manager) abort(cs *ConnState, reason uint8, cause error) error {
	m.log.Warnf("aborting pairing on %s: %v", cs.Handle, cause)
	_ = m.sendPairingFailed(cs, reason)
	cs.Reset()
	return cause
}
