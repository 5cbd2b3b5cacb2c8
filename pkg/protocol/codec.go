package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyType    = errors.New("envelope type is empty")
	ErrEmptyFrame   = errors.New("empty frame")
	ErrEmptyPayload = errors.New("empty payload")
)

// Encode заворачивает payload в конверт типа t
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		payload = struct{}{}
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, ErrEmptyType
	}
	return e, nil
}

// DecodePayload разбирает payload конверта в T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", env.T, err)
	}
	return out, nil
}
