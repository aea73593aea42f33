// Package scrubber redacts and truncates sensitive fields out of
// timeline event payloads before they leave the process.
package scrubber

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Settings controls how sensitive payload fields are sanitized.
// Field-name sets are matched case-insensitively.
type Settings struct {
	RedactFields            map[string]struct{}
	TruncateFields          map[string]struct{}
	PassthroughFields       map[string]struct{}
	MaxTruncateLength       int
	Mask                    string
	HashMask                bool
	DebugTruncationEnabled  bool
}

func fieldSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = struct{}{}
	}
	return out
}

// DefaultTimelineScrubber mirrors the reference implementation's
// DEFAULT_TIMELINE_SCRUBBER.
var DefaultTimelineScrubber = Settings{
	RedactFields:           fieldSet("email", "user_id", "access_token", "refresh_token"),
	TruncateFields:         fieldSet("prompt", "response_fragment", "llm_input", "llm_output"),
	PassthroughFields:      fieldSet("query", "asin", "product_id", "score", "step"),
	MaxTruncateLength:      512,
	Mask:                   "[scrubbed]",
	HashMask:               true,
	DebugTruncationEnabled: false,
}

// normalized returns a copy with all field-name sets lower-cased.
// Settings built via fieldSet are already lower-cased, but callers may
// construct Settings by hand, so this mirrors the reference's explicit
// normalization step.
func (s Settings) normalized() Settings {
	return Settings{
		RedactFields:           lowerSet(s.RedactFields),
		TruncateFields:         lowerSet(s.TruncateFields),
		PassthroughFields:      lowerSet(s.PassthroughFields),
		MaxTruncateLength:      s.MaxTruncateLength,
		Mask:                   s.Mask,
		HashMask:               s.HashMask,
		DebugTruncationEnabled: s.DebugTruncationEnabled,
	}
}

func lowerSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[strings.ToLower(k)] = struct{}{}
	}
	return out
}

// TruncateText truncates text to maxLength runes, appending an
// ellipsis when truncation occurs.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "…"
}

func hashValue(value any) string {
	stringified := fmt.Sprintf("%#v", value)
	digest := sha256.Sum256([]byte(stringified))
	return "[hash:" + hex.EncodeToString(digest[:])[:16] + "]"
}

// Scrub returns a sanitized copy of payload according to settings.
// debugOverride, when non-nil, overrides settings.DebugTruncationEnabled
// for this call only.
func Scrub(payload map[string]any, settings Settings, debugOverride *bool) map[string]any {
	normalized := settings.normalized()
	allowTruncation := normalized.DebugTruncationEnabled
	if debugOverride != nil {
		allowTruncation = *debugOverride
	}

	scrubbed, _ := scrubValue(payload, normalized, allowTruncation).(map[string]any)
	if scrubbed == nil {
		return map[string]any{}
	}
	return scrubbed
}

func scrubValue(value any, settings Settings, allowTruncation bool) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, child := range v {
			lowerKey := strings.ToLower(key)

			if _, ok := settings.PassthroughFields[lowerKey]; ok {
				result[key] = scrubValue(child, settings, allowTruncation)
				continue
			}

			if _, ok := settings.RedactFields[lowerKey]; ok {
				if settings.HashMask {
					result[key] = hashValue(child)
				} else {
					result[key] = settings.Mask
				}
				continue
			}

			if _, ok := settings.TruncateFields[lowerKey]; ok {
				if str, isStr := child.(string); isStr && allowTruncation {
					result[key] = TruncateText(str, settings.MaxTruncateLength)
				} else if settings.HashMask {
					result[key] = hashValue(child)
				} else {
					result[key] = settings.Mask
				}
				continue
			}

			result[key] = scrubValue(child, settings, allowTruncation)
		}
		return result

	case []any:
		cleaned := make([]any, len(v))
		for i, item := range v {
			cleaned[i] = scrubValue(item, settings, allowTruncation)
		}
		return cleaned

	case []byte:
		return TruncateText(string(v), settings.MaxTruncateLength)

	default:
		return value
	}
}
