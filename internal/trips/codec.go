package trips

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const schemaVersion = 1

type document struct {
	Version int    `json:"version"`
	Trips   []Trip `json:"trips"`
}

func encodeCollection(trips []Trip) ([]byte, error) {
	if trips == nil {
		trips = []Trip{}
	}
	return json.Marshal(document{Version: schemaVersion, Trips: trips})
}

// decodeCollection reads a versioned document or the bare array layout
// written before the version field existed.
func decodeCollection(raw []byte) ([]Trip, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var trips []Trip
		if err := json.Unmarshal(raw, &trips); err != nil {
			return nil, fmt.Errorf("decode legacy array: %w", err)
		}
		return trips, nil
	case '{':
		var doc document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		if doc.Version != schemaVersion {
			return nil, fmt.Errorf("unsupported schema version %d", doc.Version)
		}
		return doc.Trips, nil
	case 'n':
		if bytes.Equal(raw, []byte("null")) {
			return nil, nil
		}
	}
	return nil, errors.New("unrecognized trip document")
}
