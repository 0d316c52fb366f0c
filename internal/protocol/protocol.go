// Package protocol encodes and decodes Pandemonium frames: JSON text
// messages shaped {op, d?}, discriminated by the op tag.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	eludris "github.com/eludris-community/eludris-go"
)

const maxFrameSize = 10 * 1024 * 1024 // 10MB max frame size

var errMissingOp = errors.New("frame has no op tag")

// Encode serializes one outbound payload.
func Encode(p eludris.ClientPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", p.Op, err)
	}
	return data, nil
}

// Decode parses one inbound frame. The data field is left raw; callers
// validate it against the shape their tag requires.
func Decode(data []byte) (eludris.ServerPayload, error) {
	if len(data) > maxFrameSize {
		return eludris.ServerPayload{}, fmt.Errorf("frame size %d exceeds maximum %d bytes", len(data), maxFrameSize)
	}

	var p eludris.ServerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return eludris.ServerPayload{}, fmt.Errorf("decode frame: %w", err)
	}
	if p.Op == "" {
		return eludris.ServerPayload{}, errMissingOp
	}
	return p, nil
}

// DecodeHello validates a HELLO frame's data field.
func DecodeHello(p eludris.ServerPayload) (eludris.HelloData, error) {
	var d eludris.HelloData
	if err := json.Unmarshal(p.Data, &d); err != nil {
		return eludris.HelloData{}, fmt.Errorf("decode HELLO data: %w", err)
	}
	if d.HeartbeatInterval <= 0 {
		return eludris.HelloData{}, fmt.Errorf("HELLO heartbeat_interval %d is not positive", d.HeartbeatInterval)
	}
	return d, nil
}

// DecodeMessage validates a MESSAGE_CREATE frame's data field.
func DecodeMessage(p eludris.ServerPayload) (eludris.Message, error) {
	var m eludris.Message
	if err := json.Unmarshal(p.Data, &m); err != nil {
		return eludris.Message{}, fmt.Errorf("decode MESSAGE_CREATE data: %w", err)
	}
	return m, nil
}
