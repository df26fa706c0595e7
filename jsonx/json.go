package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// jsonx is the single JSON codec for the whole node. Payload encoding and
// content hashing both go through Marshal, so the encoding must stay
// byte-stable for identical input (struct fields encode in declaration order).
var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return jsonx.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return jsonx.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return jsonx.NewDecoder(r)
}
