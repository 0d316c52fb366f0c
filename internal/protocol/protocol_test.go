package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eludris "github.com/eludris-community/eludris-go"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload eludris.ClientPayload
		want    string
	}{
		{
			name:    "ping carries no data field",
			payload: eludris.Ping(),
			want:    `{"op":"PING"}`,
		},
		{
			name:    "authenticate carries the raw token",
			payload: eludris.Authenticate("tok-123"),
			want:    `{"op":"AUTHENTICATE","d":"tok-123"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := Encode(tt.payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   string
		wantOp  string
		wantErr bool
	}{
		{
			name:   "tag with data",
			frame:  `{"op":"HELLO","d":{"heartbeat_interval":45000}}`,
			wantOp: "HELLO",
		},
		{
			name:   "tag without data",
			frame:  `{"op":"AUTHENTICATED"}`,
			wantOp: "AUTHENTICATED",
		},
		{
			name:   "unknown tag passes through",
			frame:  `{"op":"SOMETHING_NEW","d":[1,2,3]}`,
			wantOp: "SOMETHING_NEW",
		},
		{
			name:    "malformed json",
			frame:   `{"op":`,
			wantErr: true,
		},
		{
			name:    "missing op tag",
			frame:   `{"d":{"foo":1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Decode([]byte(tt.frame))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, p.Op)
		})
	}
}

func TestDecodeHello(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		p, err := Decode([]byte(`{"op":"HELLO","d":{"heartbeat_interval":45000}}`))
		require.NoError(t, err)

		hello, err := DecodeHello(p)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), hello.HeartbeatInterval)
	})

	t.Run("non-positive interval", func(t *testing.T) {
		t.Parallel()

		p := eludris.ServerPayload{Op: eludris.OpHello, Data: json.RawMessage(`{"heartbeat_interval":0}`)}
		_, err := DecodeHello(p)
		require.Error(t, err)
	})

	t.Run("wrong shape", func(t *testing.T) {
		t.Parallel()

		p := eludris.ServerPayload{Op: eludris.OpHello, Data: json.RawMessage(`"oops"`)}
		_, err := DecodeHello(p)
		require.Error(t, err)
	})
}

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(`{"op":"MESSAGE_CREATE","d":{"author":"yendri","content":"hola"}}`))
	require.NoError(t, err)

	msg, err := DecodeMessage(p)
	require.NoError(t, err)
	assert.Equal(t, "yendri", msg.Author)
	assert.Equal(t, "hola", msg.Content)
}
