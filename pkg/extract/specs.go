// Package extract pulls display values out of the free-form spec document
// that upstream attaches to catalog records. The document has no fixed
// schema: sections and keys come and go per device. Every extractor here is
// total and ends in a literal fallback.
package extract

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Section and key names read from the free-form spec document.
const (
	SectionPlatform     = "platform"
	SectionDisplay      = "display"
	SectionBody         = "body"
	SectionMainCamera   = "main_camera"
	SectionSelfieCamera = "selfie_camera"
	SectionBattery      = "battery"
	SectionMemory       = "memory"
	SectionTests        = "tests"

	KeyOS          = "os"
	KeyChipset     = "chipset"
	KeyCPU         = "cpu"
	KeyType        = "type"
	KeyResolution  = "resolution"
	KeyProtection  = "protection"
	KeyBuild       = "build"
	KeyOther       = "other"
	KeyTriple      = "triple"
	KeyDual        = "dual"
	KeySingle      = "single"
	KeyVideo       = "video"
	KeyFeatures    = "features"
	KeyCharging    = "charging"
	KeyInternal    = "internal"
	KeyPerformance = "performance"
)

// Specs is the free-form spec document keyed by section, then leaf.
// Section and leaf names are lower-cased on decode; leaves are coerced to
// display text. When names collide after lower-casing, an already lower-case
// name wins, then the lexically smallest one.
type Specs map[string]map[string]string

// UnmarshalJSON decodes leniently. A document that is not an object decodes
// to nil, non-object sections are dropped, and leaves that cannot be shown
// as text are skipped. It never returns an error, so one malformed spec
// document cannot fail decoding of the surrounding record.
func (s *Specs) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*s = nil
		return nil
	}

	out := make(Specs, len(raw))
	for _, section := range foldOrder(raw) {
		fields, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		name := strings.ToLower(section)
		leaves := out[name]
		if leaves == nil {
			leaves = make(map[string]string, len(fields))
			out[name] = leaves
		}
		for _, key := range foldOrder(fields) {
			k := strings.ToLower(key)
			if _, seen := leaves[k]; seen {
				continue
			}
			if text := leafText(fields[key]); text != "" {
				leaves[k] = text
			}
		}
	}

	*s = out
	return nil
}

// Text returns the trimmed leaf value or "".
func (s Specs) Text(section, key string) string {
	return s[section][key]
}

// TextOr returns the leaf value, or fallback when it is absent.
func (s Specs) TextOr(section, key, fallback string) string {
	if v := s.Text(section, key); v != "" {
		return v
	}
	return fallback
}

// First returns the first non-empty leaf among keys in section.
func (s Specs) First(section string, keys ...string) string {
	for _, k := range keys {
		if v := s.Text(section, k); v != "" {
			return v
		}
	}
	return ""
}

// foldOrder returns m's keys with lower-case names first, each group sorted.
func foldOrder(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		aLower, bLower := a == strings.ToLower(a), b == strings.ToLower(b)
		switch {
		case aLower && !bLower:
			return -1
		case !aLower && bLower:
			return 1
		}
		return cmp.Compare(a, b)
	})
	return keys
}

func leafText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := leafText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
