package smp

// PDU codes for the Security Manager Protocol, security channel CID
// 0x0006. Only the subset this core acts on is given handlers; others are
// recognized for framing purposes but otherwise ignored.
const (
	codePairingRequest          = 0x01
	codePairingResponse         = 0x02
	codePairingConfirm          = 0x03
	codePairingRandom           = 0x04
	codePairingFailed           = 0x05
	codeEncryptionInformation   = 0x06
	codeMasterIdentification    = 0x07
	codeIdentityInformation     = 0x08
	codeIdentityAddrInformation = 0x09
	codeSigningInformation      = 0x0A
	codeSecurityRequest         = 0x0B
	codePairingPublicKey        = 0x0C
	codePairingDHKeyCheck       = 0x0D
	codePairingKeypress         = 0x0E
)

// Pairing Failed reason codes [Vol 3, Part H, 3.5.5, Table 3.7].
const (
	ReasonPasskeyEntryFailed        = 0x01
	ReasonOOBNotAvailable           = 0x02
	ReasonAuthenticationRequirements = 0x03
	ReasonConfirmValueFailed        = 0x04
	ReasonPairingNotSupported       = 0x05
	ReasonEncryptionKeySize         = 0x06
	ReasonCommandNotSupported       = 0x07
	ReasonUnspecifiedReason         = 0x08
	ReasonRepeatedAttempts          = 0x09
	ReasonInvalidParameters         = 0x0A
	ReasonDHKeyCheckFailed          = 0x0B
	ReasonNumericComparisonFailed   = 0x0C
)

// IO capability values [Vol 3, Part H, 2.3.2, Table 2.5].
const (
	IOCapDisplayOnly     = 0x00
	IOCapDisplayYesNo    = 0x01
	IOCapKeyboardOnly    = 0x02
	IOCapNoInputNoOutput = 0x03
	IOCapKeyboardDisplay = 0x04

	ioCapReservedStart = 0x05
)

// AuthReq bit positions [Vol 3, Part H, 3.5.1, Table 3.3].
const (
	authReqBondMask = 0x03
	authReqBond     = 0x01
	authReqMITM     = 0x04
	authReqSC       = 0x08
)

// Key distribution bit positions shared by initiatorKeyDistribution and
// responderKeyDistribution.
const (
	KeyDistEncKey  = 1 << 0
	KeyDistIdKey   = 1 << 1
	KeyDistSignKey = 1 << 2
	KeyDistLinkKey = 1 << 3
)

// PairingEnabled modes.
type PairingMode uint8

const (
	PairingDisabled        PairingMode = 0
	PairingEnabled         PairingMode = 1
	PairingOnceThenDisable PairingMode = 2
)
