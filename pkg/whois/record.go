package whois

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// Record is the open-ended field mapping produced by a WHOIS lookup.
// Field names vary by registrar and TLD, so no fixed schema is imposed.
// Key order follows first appearance in the response.
type Record struct {
	keys   []string
	values map[string]string
	raw    string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set adds or extends a field. Repeated keys have their values joined,
// matching how multi-line fields like name servers appear in responses.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; ok {
		r.values[key] += ", " + value
		return
	}
	r.keys = append(r.keys, key)
	r.values[key] = value
}

// Get returns the value for a field name.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in response order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Raw returns the unparsed WHOIS response text, if retained.
func (r *Record) Raw() string {
	return r.raw
}

// MarshalJSON serializes the record as a JSON object preserving key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parse folds a raw WHOIS response into a Record. Lines are split on the
// first colon and field names are camelCased, so "Registry Expiry Date"
// becomes "registryExpiryDate". Comment lines and the trailing registry
// boilerplate are skipped.
func Parse(raw string) *Record {
	rec := NewRecord()
	rec.raw = raw

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		// Everything after this marker is registry boilerplate
		if strings.HasPrefix(line, ">>>") {
			break
		}

		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := camelKey(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || value == "" {
			continue
		}
		rec.Set(key, value)
	}

	return rec
}

// camelKey converts a WHOIS field name to a camelCase key. Only whitespace
// is collapsed; hyphenated names like "paid-till" keep their hyphens.
func camelKey(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
