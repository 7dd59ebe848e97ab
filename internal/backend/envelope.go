package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedResponse is returned when a 2xx response body does not carry
// the expected data shape.
var ErrUnexpectedResponse = errors.New("unexpected response")

// Envelope is the ApiResponse wrapper the destination service replies with.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func parseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %s", ErrUnexpectedResponse, body)
	}
	return env, nil
}

// uploadedURL extracts the hosted URL from an upload response. data may be a
// bare string, an object with a "url" field, or a non-empty list of strings.
func uploadedURL(body []byte) (string, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return "", err
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 {
		return "", fmt.Errorf("%w from upload: %s", ErrUnexpectedResponse, body)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err == nil {
			if raw, ok := obj["url"]; ok && !isNull(raw) {
				var s string
				if err := json.Unmarshal(raw, &s); err == nil {
					return s, nil
				}
			}
		}
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
			return list[0], nil
		}
	}

	return "", fmt.Errorf("%w from upload: %s", ErrUnexpectedResponse, body)
}

// createdID extracts the assigned id from a create response. data may be an
// object with an "id" field (string or number) or a bare id string.
func createdID(body []byte) (string, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return "", err
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 {
		return "", fmt.Errorf("%w from create: %s", ErrUnexpectedResponse, body)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
	case '{':
		var obj struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err == nil && len(obj.ID) > 0 {
			if id, ok := scalarID(obj.ID); ok {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("%w from create: %s", ErrUnexpectedResponse, body)
}

func scalarID(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
