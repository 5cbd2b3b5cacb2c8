package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

func TestEncodeDecode(t *testing.T) {
	b, err := protocol.Encode(protocol.MsgInteract, protocol.Interact{ObjectID: 2_000_000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"interact","p":{"objectId":2000000}}`, string(b))

	env, err := protocol.DecodeEnvelope(b)
	require.NoError(t, err)
	in, err := protocol.DecodePayload[protocol.Interact](env)
	require.NoError(t, err)
	assert.Equal(t, 2_000_000, in.ObjectID)
}

func TestEncode_NilPayloadIsEmptyObject(t *testing.T) {
	b, err := protocol.Encode("boardEmpty", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"boardEmpty","p":{}}`, string(b))

	_, err = protocol.Encode("", protocol.Notice{})
	assert.ErrorIs(t, err, protocol.ErrEmptyType)
}

func TestDecode_Errors(t *testing.T) {
	_, err := protocol.DecodeEnvelope(nil)
	assert.ErrorIs(t, err, protocol.ErrEmptyFrame)

	_, err = protocol.DecodeEnvelope([]byte(`{"p":{}}`))
	assert.ErrorIs(t, err, protocol.ErrEmptyType)

	_, err = protocol.DecodeEnvelope([]byte(`not json`))
	assert.Error(t, err)

	_, err = protocol.DecodePayload[protocol.Move](protocol.Envelope{T: protocol.MsgMove})
	assert.ErrorIs(t, err, protocol.ErrEmptyPayload)

	_, err = protocol.DecodePayload[protocol.Interact](protocol.Envelope{T: protocol.MsgInteract, P: json.RawMessage(`{"objectId":"x"}`)})
	assert.Error(t, err)
}

func TestMove_WireNames(t *testing.T) {
	env, err := protocol.DecodeEnvelope([]byte(`{"t":"move","p":{"position":{"x":1,"y":0,"z":2.5},"rotation":{"y":90},"animationState":"walk"}}`))
	require.NoError(t, err)
	mv, err := protocol.DecodePayload[protocol.Move](env)
	require.NoError(t, err)
	assert.Equal(t, protocol.Move{
		Position:       protocol.Vec3{X: 1, Z: 2.5},
		Rotation:       protocol.Rotation{Y: 90},
		AnimationState: "walk",
	}, mv)
}
