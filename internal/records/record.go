// Package records turns a Weatherstack response into a flat row keyed by a content hash.
//
// A record's hash covers only what the provider reported. Load metadata such as the run id
// or the time the row was written never enters it, so the same observation fetched twice
// hashes the same.
package records

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ulascansenturk/weather-loader/internal/etlerr"
	"ulascansenturk/weather-loader/internal/providers"
)

// WeatherRecord is one flattened observation.
type WeatherRecord struct {
	Fields map[string]any
	Hash   string
}

// envelope keys describe the API call, not the weather
var envelopeKeys = map[string]bool{
	"success": true,
	"error":   true,
}

var requiredObjects = []string{"location", "current"}

// Normalize flattens resp into a WeatherRecord and computes its hash.
func Normalize(resp *providers.WeatherResponse) (WeatherRecord, error) {
	if resp == nil || resp.Payload == nil {
		return WeatherRecord{}, fmt.Errorf("%w: empty response", etlerr.ErrNormalization)
	}

	for _, key := range requiredObjects {
		if _, ok := resp.Payload[key].(map[string]any); !ok {
			return WeatherRecord{}, fmt.Errorf("%w: response for %s has no %s object", etlerr.ErrNormalization, resp.City, key)
		}
	}

	body := make(map[string]any, len(resp.Payload))
	for key, value := range resp.Payload {
		if !envelopeKeys[key] {
			body[key] = value
		}
	}

	flat, err := Flatten(body)
	if err != nil {
		return WeatherRecord{}, fmt.Errorf("%w: response for %s: %w", etlerr.ErrNormalization, resp.City, err)
	}

	fields := make(map[string]any, len(flat))
	for path, value := range flat {
		name := SanitizeName(path)
		if _, taken := fields[name]; taken {
			return WeatherRecord{}, fmt.Errorf("%w: response for %s: more than one field maps to %q", etlerr.ErrNormalization, resp.City, name)
		}
		fields[name] = value
	}

	hash, err := Hash(fields)
	if err != nil {
		return WeatherRecord{}, fmt.Errorf("%w: response for %s: %w", etlerr.ErrNormalization, resp.City, err)
	}

	return WeatherRecord{Fields: fields, Hash: hash}, nil
}

// Flatten converts nested objects into dotted paths. Lists and scalars are kept as values and
// empty objects contribute nothing.
func Flatten(data map[string]any) (map[string]any, error) {
	flat := make(map[string]any)
	if err := flattenInto(flat, "", data); err != nil {
		return nil, err
	}
	return flat, nil
}

func flattenInto(flat map[string]any, prefix string, data map[string]any) error {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			if err := flattenInto(flat, path, nested); err != nil {
				return err
			}
			continue
		}

		if _, taken := flat[path]; taken {
			return fmt.Errorf("duplicate field path %q", path)
		}
		flat[path] = value
	}
	return nil
}

// SanitizeName rewrites a dotted path into a flat column identifier.
func SanitizeName(path string) string {
	return strings.ReplaceAll(path, ".", "_")
}

// Hash is the SHA-256 of fields serialized in key order, as lowercase hex. Each entry is
// written as key, 0x1f, JSON value, 0x1e.
func Hash(fields map[string]any) (string, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, key := range keys {
		value, err := json.Marshal(fields[key])
		if err != nil {
			return "", fmt.Errorf("encoding field %s: %w", key, err)
		}

		h.Write([]byte(key))
		h.Write([]byte{0x1f})
		h.Write(value)
		h.Write([]byte{0x1e})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
