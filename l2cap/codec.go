// Package l2cap implements the signaling-channel half of the core: frame
// parsing for CID 0x0005 and the Connection Parameter Update engine that
// rides on it.
package l2cap

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Signaling command codes recognized by this core. Other codes are not
// this core's concern and are left to the caller.
const (
	CodeConnParamUpdateRequest  = 0x12
	CodeConnParamUpdateResponse = 0x13
	CodeCommandReject           = 0x01
)

// Result values for ConnParamUpdateResponse.
const (
	ResultAccepted uint16 = 0x0000
	ResultRejected uint16 = 0x0001
)

// SignalingFrame is one parsed L2CAP signaling-channel frame:
// code:u8, identifier:u8, length:u16, payload[length].
type SignalingFrame struct {
	Code       uint8
	Identifier uint8
	Payload    []byte
}

// ParseSignalingFrame parses b as a signaling-channel frame. A frame whose
// declared length field doesn't agree with the actual payload length is a
// transport error and is dropped: the second return value is false, with
// no error to report up (there is nothing actionable to do with a
// malformed frame).
func ParseSignalingFrame(b []byte) (SignalingFrame, bool) {
	if len(b) < 4 {
		return SignalingFrame{}, false
	}

	length := binary.LittleEndian.Uint16(b[2:4])
	if len(b) != 4+int(length) {
		return SignalingFrame{}, false
	}

	return SignalingFrame{
		Code:       b[0],
		Identifier: b[1],
		Payload:    b[4:],
	}, true
}

// Marshal serializes f back into wire form.
func (f SignalingFrame) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 4+len(f.Payload)))
	buf.WriteByte(f.Code)
	buf.WriteByte(f.Identifier)
	binary.Write(buf, binary.LittleEndian, uint16(len(f.Payload)))
	buf.Write(f.Payload)
	return buf.Bytes()
}

// ConnParamUpdateRequest implements Connection Parameter Update Request
// (0x12) [Vol 3, Part A, 4.20].
type ConnParamUpdateRequest struct {
	IntervalMin       uint16
	IntervalMax       uint16
	SlaveLatency      uint16
	TimeoutMultiplier uint16
}

// Marshal serializes the request's parameters (not the signaling header).
func (r *ConnParamUpdateRequest) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 8))
	binary.Write(buf, binary.LittleEndian, r)
	return buf.Bytes()
}

// UnmarshalConnParamUpdateRequest parses a request's parameter bytes.
func UnmarshalConnParamUpdateRequest(b []byte) (*ConnParamUpdateRequest, error) {
	if len(b) != 8 {
		return nil, fmt.Errorf("l2cap: conn param update request wrong length %d", len(b))
	}
	r := &ConnParamUpdateRequest{}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ConnParamUpdateResponse implements Connection Parameter Update Response
// (0x13) [Vol 3, Part A, 4.21].
type ConnParamUpdateResponse struct {
	Result uint16
}

// Marshal serializes the response's parameters.
func (r *ConnParamUpdateResponse) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 2))
	binary.Write(buf, binary.LittleEndian, r)
	return buf.Bytes()
}

// UnmarshalConnParamUpdateResponse parses a response's parameter bytes.
func UnmarshalConnParamUpdateResponse(b []byte) (*ConnParamUpdateResponse, error) {
	if len(b) != 2 {
		return nil, fmt.Errorf("l2cap: conn param update response wrong length %d", len(b))
	}
	r := &ConnParamUpdateResponse{}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CommandReject implements Command Reject (0x01) [Vol 3, Part A, 4.1]. The
// core never emits this for conn-param-update frames (those are silently
// dropped), but a caller wiring up the full signaling channel needs it for
// other unrecognized signaling codes, so it is exposed here alongside the
// frame codec it shares a channel with.
type CommandReject struct {
	Reason uint16
	Data   []byte
}

// Marshal serializes the reject's parameters.
func (c *CommandReject) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 2+len(c.Data)))
	binary.Write(buf, binary.LittleEndian, c.Reason)
	buf.Write(c.Data)
	return buf.Bytes()
}

// BuildCommandReject builds a full signaling frame rejecting identifier
// with reason, echoing it back out on the same channel.
func BuildCommandReject(identifier uint8, reason uint16) []byte {
	cr := &CommandReject{Reason: reason}
	return SignalingFrame{
		Code:       CodeCommandReject,
		Identifier: identifier,
		Payload:    cr.Marshal(),
	}.Marshal()
}
