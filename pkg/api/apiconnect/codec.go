// Package apiconnect binds the messages in package api to Connect handlers
// and clients.
package apiconnect

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName replaces Connect's protobuf-only JSON codec.
const codecName = "json"

// Codec is a strict JSON codec: unknown fields and trailing data are errors.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON message")
	}
	return nil
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
