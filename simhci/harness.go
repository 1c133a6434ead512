// Package simhci is an in-process stand-in for the HCI transport and
// controller: it gives two smp.Manager/l2cap.Engine pairs a loopback link
// and a software ECDH engine, so the core can be driven through a full
// handshake without a real radio.
package simhci

import (
	"errors"
	"fmt"

	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
	"github.com/rigado/blecore/l2cap"
	"github.com/rigado/blecore/smp"
)

var errInvalidPeerPublicKey = errors.New("simhci: invalid peer public key")

// Peer is one side of a simulated link: its own pairing manager, parameter
// update engine, registry, and controller.
type Peer struct {
	Handle  ble.ConnHandle
	Addr    ble.Addr
	SMP     *smp.Manager
	Params  *l2cap.Engine
	Prompt  *AutoPrompt
	Bonds   hci.BondManager
	ctrl    *controller
	harness *Harness
}

// controller implements hci.Transport for one Peer, backed by a software
// ECDH engine and the Harness's event queue: a command suspends the
// caller, and progress resumes only when the corresponding event is
// delivered back into the core.
type controller struct {
	peer  *Peer
	ecdh  *softwareECDH
	addr  ble.Addr
}

func newController(addr ble.Addr) (*controller, error) {
	e, err := newSoftwareECDH()
	if err != nil {
		return nil, err
	}
	return &controller{ecdh: e, addr: addr}, nil
}

func (c *controller) SendACL(handle ble.ConnHandle, cid uint16, payload []byte) error {
	c.peer.harness.deliverACL(c.peer, cid, payload)
	return nil
}

func (c *controller) SendCommand(opcode uint16, params []byte) error {
	switch opcode {
	case hci.OpcodeLEReadLocalP256PublicKey:
		x, y := c.ecdh.publicKeyXY()
		c.peer.harness.deliverPublicKey(c.peer, hci.PublicKeyReady{X: x, Y: y})
		return nil

	case hci.OpcodeLEGenerateDHKeyV1:
		if len(params) != 64 {
			return fmt.Errorf("simhci: LE Generate DHKey V1 wants 64 bytes, got %d", len(params))
		}
		var wx, wy smp.Wire256
		copy(wx[:], params[:32])
		copy(wy[:], params[32:])
		peerX := wx.ToCrypto()
		peerY := wy.ToCrypto()

		dhkey, err := c.ecdh.sharedSecret([32]byte(peerX), [32]byte(peerY))
		if err != nil {
			return err
		}
		c.peer.harness.deliverDHKey(c.peer, hci.DHKeyReady{DHKey: dhkey})
		return nil

	case hci.OpcodeLEStartEncryption:
		c.peer.harness.deliverEncryptionChange(c.peer)
		return nil

	case hci.OpcodeLESetConnectionUpdate:
		// the simulated link layer always grants what it's told; there is
		// no separate "connection update complete" event to feed back to
		// l2cap.Engine, which takes no further action on acceptance.
		return nil

	default:
		return fmt.Errorf("simhci: unhandled opcode %#04x", opcode)
	}
}

func (c *controller) ReadBDAddr() (ble.Addr, error) {
	return c.addr, nil
}

func (c *controller) LERand(buf []byte) error {
	return cryptoRandRead(buf)
}

// Harness wires two Peers (Initiator and Responder) together over a
// simulated link, running a small single-threaded event loop: entry
// points run to completion, and controller-originated events are queued
// rather than dispatched reentrantly from inside another entry point.
type Harness struct {
	Initiator *Peer
	Responder *Peer

	queue []func()
}

// PeerConfig bounds one side's configuration surface.
type PeerConfig struct {
	Addr    ble.Addr
	Pairing smp.PairingMode
	IOCap   uint8
	AuthReq uint8 // bit 0x01 bonding, bit 0x08 LE Secure Connections
	Params  l2cap.Config
	Bonds   hci.BondManager
}

// NewHarness builds a two-peer loopback with handle 0x0040 on both sides
// (two independent event loops never need to agree on a handle number in
// real life, but reusing one keeps the demo's logging readable).
func NewHarness(initCfg, respCfg PeerConfig) (*Harness, error) {
	h := &Harness{}

	initiator, err := newPeer(0x0040, initCfg)
	if err != nil {
		return nil, err
	}
	responder, err := newPeer(0x0040, respCfg)
	if err != nil {
		return nil, err
	}

	initiator.harness = h
	responder.harness = h
	initiator.ctrl.peer = initiator
	responder.ctrl.peer = responder

	h.Initiator = initiator
	h.Responder = responder

	initiator.SMP.OnConnectionUp(initiator.Handle, uint8(initiator.Addr.Type), initiator.Addr.Bytes, uint8(responder.Addr.Type), responder.Addr.Bytes)
	responder.SMP.OnConnectionUp(responder.Handle, uint8(responder.Addr.Type), responder.Addr.Bytes, uint8(initiator.Addr.Type), initiator.Addr.Bytes)

	return h, nil
}

func newPeer(handle ble.ConnHandle, cfg PeerConfig) (*Peer, error) {
	ctrl, err := newController(cfg.Addr)
	if err != nil {
		return nil, err
	}

	prompt := NewAutoPrompt()
	bonds := cfg.Bonds
	if bonds == nil {
		bonds = newInMemoryBonds()
	}

	authReq := cfg.AuthReq
	if authReq == 0 {
		authReq = 0x09 // bonding + LE Secure Connections
	}

	mgrCfg := smp.Config{
		Pairing:     cfg.Pairing,
		LocalIOCap:  cfg.IOCap,
		AuthReq:     authReq,
		MaxKeySize:  16,
		InitKeyDist: smp.KeyDistIdKey | smp.KeyDistEncKey,
		RespKeyDist: smp.KeyDistIdKey | smp.KeyDistEncKey,
	}

	registry := newMemRegistry()
	mgr := smp.NewManager(mgrCfg, ctrl, registry, bonds, prompt)

	return &Peer{
		Handle: handle,
		Addr:   cfg.Addr,
		SMP:    mgr,
		Params: l2cap.NewEngine(cfg.Params),
		Prompt: prompt,
		Bonds:  bonds,
		ctrl:   ctrl,
	}, nil
}

// otherSideOf returns the Peer on the far end of the link from p.
func (h *Harness) otherSideOf(p *Peer) *Peer {
	if p == h.Initiator {
		return h.Responder
	}
	return h.Initiator
}

func (h *Harness) deliverACL(from *Peer, cid uint16, payload []byte) {
	to := h.otherSideOf(from)
	h.queue = append(h.queue, func() {
		switch cid {
		case hci.CIDSecurity:
			_ = to.SMP.HandleSecurityPDU(to.Handle, payload)
		case hci.CIDSignaling:
			h.dispatchSignaling(to, payload)
		}
	})
}

func (h *Harness) dispatchSignaling(to *Peer, payload []byte) {
	frame, ok := l2cap.ParseSignalingFrame(payload)
	if !ok {
		return
	}
	switch frame.Code {
	case l2cap.CodeConnParamUpdateRequest:
		req, err := l2cap.UnmarshalConnParamUpdateRequest(frame.Payload)
		if err != nil {
			return
		}
		resp, cmd := to.Params.OnUpdateRequest(to.Handle, frame.Identifier, req)
		_ = to.ctrl.SendACL(to.Handle, hci.CIDSignaling, l2cap.SignalingFrame{
			Code:       l2cap.CodeConnParamUpdateResponse,
			Identifier: frame.Identifier,
			Payload:    resp.Marshal(),
		}.Marshal())
		if cmd != nil {
			_ = to.ctrl.SendCommand(hci.OpcodeLESetConnectionUpdate, cmd.Marshal())
		}
	case l2cap.CodeConnParamUpdateResponse:
		resp, err := l2cap.UnmarshalConnParamUpdateResponse(frame.Payload)
		if err != nil {
			return
		}
		to.Params.OnUpdateResponse(to.Handle, resp)
	}
}

func (h *Harness) deliverPublicKey(p *Peer, evt hci.PublicKeyReady) {
	h.queue = append(h.queue, func() {
		_ = p.SMP.OnPublicKeyReady(p.Handle, evt)
	})
}

func (h *Harness) deliverDHKey(p *Peer, evt hci.DHKeyReady) {
	h.queue = append(h.queue, func() {
		_ = p.SMP.OnDHKeyReady(p.Handle, evt)
	})
}

func (h *Harness) deliverEncryptionChange(initiator *Peer) {
	responder := h.otherSideOf(initiator)
	h.queue = append(h.queue, func() {
		_ = initiator.SMP.OnEncryptionChange(initiator.Handle, hci.EncryptionChange{Handle: uint16(initiator.Handle), Enabled: true})
		_ = responder.SMP.OnEncryptionChange(responder.Handle, hci.EncryptionChange{Handle: uint16(responder.Handle), Enabled: true})
	})
}

// Run drains the event queue to completion, including events newly
// enqueued by handlers it runs along the way. It returns once both peers
// are idle.
func (h *Harness) Run() {
	for len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]
		next()
	}
}

// StartPairing kicks off a handshake as Initiator and drains the event
// queue to completion.
func (h *Harness) StartPairing() error {
	if err := h.Initiator.SMP.InitiatePairing(h.Initiator.Handle); err != nil {
		return err
	}
	h.Run()
	return nil
}
