package timeline

// coerceMessagePayload normalizes a stream message field into the raw
// JSON text it carries, tolerating the handful of shapes a
// heterogeneous client population might produce: a plain string, raw
// bytes, or a single-element wrapper sequence around either. Anything
// else is rejected rather than guessed at.
func coerceMessagePayload(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case []any:
		if len(v) == 1 {
			return coerceMessagePayload(v[0])
		}
		return "", false
	default:
		return "", false
	}
}

// extractDataField locates the "data" entry out of a decoded stream
// message, which arrives as a map keyed by field name. Only that map
// shape is handled; a flattened [key, value, ...] sequence is not.
func extractDataField(fields map[string]any) (any, bool) {
	if v, ok := fields["data"]; ok {
		return v, true
	}
	return nil, false
}
