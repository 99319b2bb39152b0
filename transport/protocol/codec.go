package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrMissingEvent   = errors.New("message has no event")
	ErrMissingPayload = errors.New("message has no payload")
	ErrUnknownCodec   = errors.New("unknown codec")
)

// Codec converts envelopes to and from frames.
type Codec interface {
	// Name is the value of the ?codec= query parameter.
	Name() string
	// Binary reports whether frames go out as binary WebSocket messages.
	Binary() bool
	Encode(env Envelope) ([]byte, error)
	Decode(data []byte) (*Frame, error)
	// Unmarshal decodes a raw payload taken from a Frame.
	Unmarshal(data []byte, v interface{}) error
}

// Frame is an inbound message whose payload has not been decoded yet.
type Frame struct {
	Event string
	Data  []byte
	codec Codec
}

// Bind decodes the payload into v.
func (f *Frame) Bind(v interface{}) error {
	if len(f.Data) == 0 {
		return ErrMissingPayload
	}
	return f.codec.Unmarshal(f.Data, v)
}

// HasPayload reports whether the frame carried a non-null payload.
func (f *Frame) HasPayload() bool {
	d := bytes.TrimSpace(f.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null")) && !(len(d) == 1 && d[0] == msgpackNil)
}

const msgpackNil = 0xc0

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName resolves a codec name. The empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "msgpack", "messagepack":
		return MsgPack, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type jsonCodec struct{}

type jsonFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (c jsonCodec) Decode(data []byte) (*Frame, error) {
	var raw jsonFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json frame: %w", err)
	}
	if raw.Event == "" {
		return nil, ErrMissingEvent
	}
	return &Frame{Event: raw.Event, Data: raw.Data, codec: c}, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// msgpackCodec reuses the json struct tags so both codecs share field names.
type msgpackCodec struct{}

type msgpackFrame struct {
	Event string             `json:"event"`
	Data  msgpack.RawMessage `json:"data"`
}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode msgpack frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (c msgpackCodec) Decode(data []byte) (*Frame, error) {
	var raw msgpackFrame
	if err := c.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode msgpack frame: %w", err)
	}
	if raw.Event == "" {
		return nil, ErrMissingEvent
	}
	return &Frame{Event: raw.Event, Data: []byte(raw.Data), codec: c}, nil
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
