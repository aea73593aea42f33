// Package cache hosts the payload codec shared by every cache-adapter
// backend and the multi-tier response cache. It never inspects
// response semantics — payloads are opaque structured mappings.
package cache

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Serialize gzip-compresses the JSON encoding of payload. Key order is
// whatever goccy/go-json produces for the concrete type; callers that
// need a stable byte representation (e.g. for hashing) must canonicalize
// before calling Serialize.
func Serialize(payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cache: encode payload: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(encoded); err != nil {
		return nil, fmt.Errorf("cache: gzip payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("cache: close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize is the inverse of Serialize, decoding into out (a
// pointer).
func Deserialize(blob []byte, out any) error {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("cache: open gzip reader: %w", err)
	}
	defer gz.Close()

	decoded, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("cache: read gzip payload: %w", err)
	}
	if err := json.Unmarshal(decoded, out); err != nil {
		return fmt.Errorf("cache: decode payload: %w", err)
	}
	return nil
}
