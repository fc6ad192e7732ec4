package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// EmptyTagsJSON is the canonical encoding of an empty tag set
const EmptyTagsJSON = "[]"

// Tags is an ordered set of tag strings. It is stored as the JSON text of a
// string array and exchanged with the storefront as a native list.
type Tags []string

// NewTags builds a tag set from raw strings, trimming whitespace and dropping
// blanks and duplicates while keeping first-seen order.
func NewTags(raw ...string) Tags {
	seen := make(map[string]struct{}, len(raw))
	tags := make(Tags, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// ParseTagList parses a comma-separated tag list, the form Shopify uses in
// its REST payloads and CSV exports.
func ParseTagList(s string) Tags {
	return NewTags(strings.Split(s, ",")...)
}

// EncodeTags returns the JSON array text for the tags. An empty or nil set
// encodes to "[]".
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return EmptyTagsJSON
	}
	b, err := json.Marshal(tags)
	if err != nil {
		// []string always marshals
		return EmptyTagsJSON
	}
	return string(b)
}

// DecodeTags parses JSON array text into tags. Blank input decodes to an
// empty set. Legacy rows holding a plain comma-separated list are accepted.
func DecodeTags(s string) (Tags, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Tags{}, nil
	}
	if !strings.HasPrefix(s, "[") {
		return ParseTagList(s), nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("invalid tags %q: %w", s, err)
	}
	if out == nil {
		out = []string{}
	}
	return Tags(out), nil
}

// String returns the JSON array text
func (t Tags) String() string {
	return EncodeTags(t)
}

// Join renders the tags as the comma-separated form Shopify accepts
func (t Tags) Join() string {
	return strings.Join(t, ", ")
}

// Value implements driver.Valuer
func (t Tags) Value() (driver.Value, error) {
	return EncodeTags(t), nil
}

// Scan implements sql.Scanner
func (t *Tags) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Tags", value)
	}
	decoded, err := DecodeTags(s)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// MarshalJSON renders tags as a JSON array, never null
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte(EmptyTagsJSON), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts either a JSON array or a JSON string holding the
// encoded array (the form older API clients send).
func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*t = Tags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags must be an array or string: %w", err)
	}
	decoded, err := DecodeTags(s)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}
