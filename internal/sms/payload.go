// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sms

import (
	"bytes"
	"encoding/json"
	"io"
)

// Payload is an inbound webhook body. No schema is enforced.
type Payload map[string]any

// DecodePayload reads a JSON object from r. Anything that is not a JSON
// object, including an empty body, yields an empty Payload. Numbers are kept
// as json.Number so they are re-encoded exactly as received.
func DecodePayload(r io.Reader) Payload {
	if r == nil {
		return Payload{}
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil || p == nil {
		return Payload{}
	}
	return p
}

// DecodeValue decodes an arbitrary JSON document, returning nil when body is
// not valid JSON.
func DecodeValue(body []byte) any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// BuildMT derives the reply MT body for an MO payload. The inbound fields are
// copied first and the configured defaults are laid on top, so a default wins
// over a same-named inbound field. The merged "from" value then moves to "to".
// Neither input is modified.
func BuildMT(mo Payload, defaults map[string]any) Payload {
	mt := make(Payload, len(mo)+len(defaults)+1)
	for k, v := range mo {
		mt[k] = v
	}
	for k, v := range defaults {
		mt[k] = v
	}
	mt["to"] = mt["from"]
	delete(mt, "from")
	return mt
}
