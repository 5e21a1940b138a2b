package store

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/golang/snappy"
)

func encode(v any, compress bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unable to encode artifact, %w", err)
	}
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

func decode(data []byte, compressed bool, v any) error {
	if compressed {
		var err error
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return fmt.Errorf("unable to decompress artifact, %w", err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unable to decode artifact, %w", err)
	}
	return nil
}
