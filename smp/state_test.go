package smp

import "testing"

func TestFlagsAreMonotoneUntilReset(t *testing.T) {
	var cs ConnState
	cs.SetFlag(FlagPairingRequested)
	if !cs.HasFlag(FlagPairingRequested) {
		t.Fatal("expected FlagPairingRequested to be set")
	}

	cs.SetFlag(FlagDHKeyCalculated)
	if !cs.HasFlag(FlagPairingRequested) || !cs.HasFlag(FlagDHKeyCalculated) {
		t.Error("setting a new flag must not clear an existing one")
	}

	cs.Reset()
	if cs.Flags != 0 {
		t.Errorf("expected Reset to clear all flags, got %#x", cs.Flags)
	}
}

func TestResetPreservesRoleInPairing(t *testing.T) {
	var cs ConnState
	cs.RoleInPairing = RoleInitiator
	cs.State = S7AwaitingDHKey
	cs.SetFlag(FlagDHKeyCalculated)

	cs.Reset()

	if cs.RoleInPairing != RoleInitiator {
		t.Errorf("Reset must not change role_in_pairing, got %s", cs.RoleInPairing)
	}
	if cs.State != StateIdle {
		t.Errorf("expected Reset to return state to idle, got %v", cs.State)
	}
}

func TestResetZeroesEphemerals(t *testing.T) {
	var cs ConnState
	cs.PeerConfirm = Crypto128{0xff}
	cs.RemoteDHKeyCheck = Crypto128{0xff}
	cs.HasRemoteDHKeyCheck = true
	cs.attempt.Na = Crypto128{0xaa}
	cs.attempt.HasDHKey = true

	cs.Reset()

	if cs.PeerConfirm != (Crypto128{}) {
		t.Error("expected PeerConfirm to be zeroed")
	}
	if cs.HasRemoteDHKeyCheck {
		t.Error("expected HasRemoteDHKeyCheck to be cleared")
	}
	if cs.attempt != (pairingAttempt{}) {
		t.Error("expected pairingAttempt to be zeroed")
	}
}

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		RoleUnknown:   "unknown",
		RoleInitiator: "initiator",
		RoleResponder: "responder",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Errorf("Role(%d).String() = %q, want %q", role, got, want)
		}
	}
}
