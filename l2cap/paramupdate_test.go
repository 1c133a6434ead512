package l2cap

import (
	"testing"

	"github.com/rigado/blecore/ble"
)

func TestParamUpdateAccept(t *testing.T) {
	e := NewEngine(Config{
		HasBounds:          true,
		MinInterval:        0x0018,
		MaxInterval:        0x0028,
		SupervisionTimeout: 0x01F4,
	})

	req := &ConnParamUpdateRequest{
		IntervalMin:       0x0020,
		IntervalMax:       0x0024,
		SlaveLatency:      0,
		TimeoutMultiplier: 0x01F4,
	}

	resp, cmd := e.OnUpdateRequest(ble.ConnHandle(1), 0x01, req)
	if resp.Result != ResultAccepted {
		t.Fatalf("expected accept, got result %#x", resp.Result)
	}
	if cmd == nil {
		t.Fatal("expected an LE Connection Update command on accept")
	}
	if cmd.IntervalMin != req.IntervalMin || cmd.IntervalMax != req.IntervalMax {
		t.Fatalf("command params don't match request: %+v", cmd)
	}
}

func TestParamUpdateReject(t *testing.T) {
	e := NewEngine(Config{
		HasBounds:          true,
		MinInterval:        0x0018,
		MaxInterval:        0x0028,
		SupervisionTimeout: 0x01F4,
	})

	req := &ConnParamUpdateRequest{
		IntervalMin:       0x0010,
		IntervalMax:       0x0024,
		SlaveLatency:      0,
		TimeoutMultiplier: 0x01F4,
	}

	resp, cmd := e.OnUpdateRequest(ble.ConnHandle(1), 0x01, req)
	if resp.Result != ResultRejected {
		t.Fatalf("expected reject, got result %#x", resp.Result)
	}
	if cmd != nil {
		t.Fatal("expected no HCI command on reject")
	}
}

func TestOnConnectionUpPeripheralOutOfRange(t *testing.T) {
	e := NewEngine(Config{
		HasBounds:   true,
		MinInterval: 0x0018,
		MaxInterval: 0x0028,
	})

	req, id, ok := e.OnConnectionUp(RoleSlave, 0x0010)
	if !ok {
		t.Fatal("expected a request to be generated for an out-of-range interval")
	}
	if id != requestIdentifier {
		t.Fatalf("expected identifier 0x01, got %#x", id)
	}
	if req.IntervalMin != e.cfg.MinInterval || req.IntervalMax != e.cfg.MaxInterval {
		t.Fatalf("request doesn't reflect configured preference: %+v", req)
	}
	if req.SlaveLatency != 0 {
		t.Fatalf("expected zero latency, got %d", req.SlaveLatency)
	}
}

func TestOnConnectionUpPeripheralInRange(t *testing.T) {
	e := NewEngine(Config{
		HasBounds:   true,
		MinInterval: 0x0018,
		MaxInterval: 0x0028,
	})

	_, _, ok := e.OnConnectionUp(RoleSlave, 0x0020)
	if ok {
		t.Fatal("expected no request for an interval already in range")
	}
}

func TestOnConnectionUpMasterNeverRequests(t *testing.T) {
	e := NewEngine(Config{HasBounds: true, MinInterval: 0x0018, MaxInterval: 0x0028})

	_, _, ok := e.OnConnectionUp(RoleMaster, 0x0010)
	if ok {
		t.Fatal("master-role connections must never generate a request")
	}
}

func TestParseSignalingFrameLengthMismatchDropped(t *testing.T) {
	// code, identifier, length=5 but only 2 bytes of payload follow.
	b := []byte{CodeConnParamUpdateRequest, 0x01, 0x05, 0x00, 0xAA, 0xBB}
	_, ok := ParseSignalingFrame(b)
	if ok {
		t.Fatal("expected frame with length mismatch to be dropped")
	}
}

func TestSignalingFrameRoundTrip(t *testing.T) {
	req := &ConnParamUpdateRequest{IntervalMin: 0x18, IntervalMax: 0x28, SlaveLatency: 0, TimeoutMultiplier: 0x1F4}
	f := SignalingFrame{Code: CodeConnParamUpdateRequest, Identifier: 0x01, Payload: req.Marshal()}

	wire := f.Marshal()
	parsed, ok := ParseSignalingFrame(wire)
	if !ok {
		t.Fatal("expected round-tripped frame to parse")
	}
	if parsed.Code != f.Code || parsed.Identifier != f.Identifier {
		t.Fatalf("header mismatch: %+v", parsed)
	}

	got, err := UnmarshalConnParamUpdateRequest(parsed.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *req {
		t.Fatalf("payload mismatch: got %+v want %+v", got, req)
	}
}
