package smp

// securityHandlers maps each recognized SMP code to the handler that
// advances the state machine on receipt. Codes this core never acts on
// (signing information, keypress notifications) are simply absent, which
// HandleSecurityPDU treats as a silent drop.
var securityHandlers = map[uint8]func(*Manager, *ConnState, []byte) error{
	codePairingRequest:          (*Manager).onPairingRequest,
	codePairingResponse:         (*Manager).onPairingResponse,
	codePairingConfirm:          (*Manager).onPairingConfirm,
	codePairingRandom:           (*Manager).onPairingRandom,
	codePairingFailed:           (*Manager).onPairingFailed,
	codePairingPublicKey:        (*Manager).onPairingPublicKey,
	codePairingDHKeyCheck:       (*Manager).onPairingDHKeyCheck,
	codeIdentityInformation:     (*Manager).onIdentityInformation,
	codeIdentityAddrInformation: (*Manager).onIdentityAddressInformation,
}

// pairingFailedReason renders a Pairing Failed reason byte for logging
// [Vol 3, Part H, 3.5.5, Table 3.7].
var pairingFailedReason = map[uint8]string{
	ReasonPasskeyEntryFailed:        "passkey entry failed",
	ReasonOOBNotAvailable:           "oob not available",
	ReasonAuthenticationRequirements: "authentication requirements",
	ReasonConfirmValueFailed:        "confirm value failed",
	ReasonPairingNotSupported:       "pairing not supported",
	ReasonEncryptionKeySize:         "encryption key size",
	ReasonCommandNotSupported:       "command not supported",
	ReasonUnspecifiedReason:         "unspecified reason",
	ReasonRepeatedAttempts:          "repeated attempts",
	ReasonInvalidParameters:         "invalid parameters",
	ReasonDHKeyCheckFailed:          "dhkey check failed",
	ReasonNumericComparisonFailed:   "numeric comparison failed",
}

func reasonString(r uint8) string {
	if s, ok := pairingFailedReason[r]; ok {
		return s
	}
	return "unknown"
}
