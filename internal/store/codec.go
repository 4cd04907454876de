package store

import (
	"encoding/json"
	"errors"
)

// CurrentCodecVersion is the record format this package reads and writes.
const CurrentCodecVersion = 1

// ErrVersionMismatch is returned when a stored record has another codec version.
var ErrVersionMismatch = errors.New("record version mismatch")

// EncodeRecord serializes r as JSON. NewRecord sets its codec version.
func EncodeRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a record written by EncodeRecord.
func DecodeRecord(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, err
	}
	if record.CodecVersion != CurrentCodecVersion {
		return Record{}, ErrVersionMismatch
	}
	return record, nil
}
