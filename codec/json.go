package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// set it on the matchio writers where supported.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// NOTE: This affects newly-created documents. Existing track snapshots are
// self-describing (they store the codec name in their header) and are opened
// by selecting the appropriate codec by name. Match documents store no codec
// name and are decoded with the codec passed to the reader (this default
// when none is given).
var Default Codec = GoJSON{}
