package storage

import "encoding/json"

// Collections persist as JSON arrays, single records as JSON objects.
// Temporal fields ride through encoding/json as RFC 3339 strings and come
// back as time.Time on every decode, so instants round-trip exactly.

func encodeRecords[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(records)
}

func decodeRecords[T any](blob []byte) ([]T, error) {
	var records []T
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeRecord[T any](record T) ([]byte, error) {
	return json.Marshal(record)
}

func decodeRecord[T any](blob []byte) (T, error) {
	var record T
	err := json.Unmarshal(blob, &record)
	return record, err
}
