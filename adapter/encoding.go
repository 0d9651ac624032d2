package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the wire format of published events.
type Encoding string

// Supported encodings.
const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding parses an encoding name. Empty selects JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return EncodingJSON, nil
	case "msgpack":
		return EncodingMsgpack, nil
	default:
		return "", fmt.Errorf("invalid encoding: %q (must be json or msgpack)", s)
	}
}

// ContentType returns the MIME type for HTTP transports.
func (e Encoding) ContentType() string {
	if e == EncodingMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// Encode serializes event. An empty Encoding means JSON.
func Encode(e Encoding, event *SubmissionChangedEvent) ([]byte, error) {
	switch e {
	case EncodingJSON, "":
		return json.Marshal(event)
	case EncodingMsgpack:
		return msgpack.Marshal(event)
	default:
		return nil, fmt.Errorf("unknown encoding: %s", e)
	}
}

// Decode is the inverse of Encode.
func Decode(e Encoding, data []byte, event *SubmissionChangedEvent) error {
	switch e {
	case EncodingJSON, "":
		return json.Unmarshal(data, event)
	case EncodingMsgpack:
		return msgpack.Unmarshal(data, event)
	default:
		return fmt.Errorf("unknown encoding: %s", e)
	}
}
