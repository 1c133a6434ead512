package simhci

import "crypto/rand"

// cryptoRandRead stands in for the controller's LE Rand command.
func cryptoRandRead(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
