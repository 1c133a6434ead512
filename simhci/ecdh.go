package simhci

import (
	"crypto"
	"crypto/elliptic"
	"crypto/rand"

	ecdh "github.com/wsddn/go-ecdh"
)

// softwareECDH stands in for the controller's P-256 key agreement engine
// (LE Read Local P-256 Public Key / LE Generate DHKey). It lives outside
// the smp package on purpose: the ECDH primitive is a collaborator of the
// pairing core, not part of it, and simhci is exactly that collaborator
// for tests and the demo CLI.
type softwareECDH struct {
	curve ecdh.ECDH
	priv  crypto.PrivateKey
	pub   crypto.PublicKey
}

func newSoftwareECDH() (*softwareECDH, error) {
	curve := ecdh.NewEllipticECDH(elliptic.P256())
	priv, pub, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &softwareECDH{curve: curve, priv: priv, pub: pub}, nil
}

// publicKeyXY returns the local public key split into its affine
// coordinates, in cryptographic (big-endian) byte order, matching
// hci.PublicKeyReady's documented convention.
func (s *softwareECDH) publicKeyXY() (x, y [32]byte) {
	marshaled := s.curve.Marshal(s.pub) // 0x04 || X || Y, big-endian
	copy(x[:], marshaled[1:33])
	copy(y[:], marshaled[33:65])
	return x, y
}

// sharedSecret computes the ECDH shared secret (DHKey) with a peer public
// key given as big-endian X,Y coordinates, returning it in the same
// cryptographic byte order.
func (s *softwareECDH) sharedSecret(peerX, peerY [32]byte) ([32]byte, error) {
	marshaled := make([]byte, 0, 65)
	marshaled = append(marshaled, 0x04)
	marshaled = append(marshaled, peerX[:]...)
	marshaled = append(marshaled, peerY[:]...)

	peerPub, ok := s.curve.Unmarshal(marshaled)
	if !ok {
		var zero [32]byte
		return zero, errInvalidPeerPublicKey
	}

	secret, err := s.curve.GenerateSharedSecret(s.priv, peerPub)
	if err != nil {
		var zero [32]byte
		return zero, err
	}

	var out [32]byte
	copy(out[:], secret)
	return out, nil
}
