package reqx

import (
	"bytes"
	"encoding/gob"
	"time"
)

// Codec serializes a single stored value together with the time it was
// saved, so it can be kept in any Store.
type Codec interface {
	// Decode decodes a byte slice into the saved time and the value.
	Decode(data []byte) (savedAt time.Time, value any, err error)

	// Encode encodes the saved time and the value into a byte slice.
	Encode(savedAt time.Time, value any) (data []byte, err error)
}

var _ Codec = GobCodec{}

// GobCodec is the default Codec, built on encoding/gob. Values of custom
// types must be registered with gob.Register before they are stored.
type GobCodec struct{}

type gobEntry struct {
	SavedAt time.Time
	Value   any
}

// Encode serializes the saved time and value using gob encoding.
func (GobCodec) Encode(savedAt time.Time, value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	err := encoder.Encode(&gobEntry{SavedAt: savedAt, Value: value})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode deserializes data produced by Encode.
func (GobCodec) Decode(data []byte) (time.Time, any, error) {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	var e gobEntry
	err := decoder.Decode(&e)
	return e.SavedAt, e.Value, err
}
